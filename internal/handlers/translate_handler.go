package handlers

import (
	"time"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/dto"
	"github.com/basetopia/basetopia-backend/internal/translate"
	"github.com/gofiber/fiber/v2"
)

type TranslateHandler struct {
	translator translate.Translator
	timeout    time.Duration
}

func NewTranslateHandler(tr translate.Translator, timeout time.Duration) *TranslateHandler {
	return &TranslateHandler{translator: tr, timeout: timeout}
}

func (h *TranslateHandler) Translate(c *fiber.Ctx) error {
	var req dto.TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()
	text, err := h.translator.Translate(ctx, req.Content, req.TargetLanguage, req.InputLanguage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TranslateResponse{TranslatedText: text})
}

// TranslateDict translates the named fields of an arbitrary JSON document,
// keeping its shape and key order.
func (h *TranslateHandler) TranslateDict(c *fiber.Ctx) error {
	var req dto.TranslateDictRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}
	if len(req.Data) == 0 {
		return respondError(c, apperr.InvalidArgument("data is required"))
	}
	tree, err := translate.ParseJSON(req.Data)
	if err != nil {
		return respondError(c, apperr.InvalidArgument("data must be valid JSON"))
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()
	out, err := translate.Localize(ctx, h.translator, tree, req.TargetLanguage, req.FieldsToTranslate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TranslateDictResponse{TranslatedData: out})
}
