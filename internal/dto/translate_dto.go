package dto

import (
	"encoding/json"

	"github.com/basetopia/basetopia-backend/internal/translate"
)

type TranslateRequest struct {
	Content        string `json:"content"`
	TargetLanguage string `json:"target_language"`
	InputLanguage  string `json:"input_language"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// TranslateDictRequest keeps Data raw so key order survives translation.
type TranslateDictRequest struct {
	Data              json.RawMessage `json:"data"`
	TargetLanguage    string          `json:"target_language"`
	FieldsToTranslate []string        `json:"fields_to_translate"`
}

type TranslateDictResponse struct {
	TranslatedData translate.Tree `json:"translated_data"`
}
