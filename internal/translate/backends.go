package translate

import (
	"context"
	"errors"
	"fmt"

	translateapi "cloud.google.com/go/translate/apiv3"
	"cloud.google.com/go/translate/apiv3/translatepb"
	"google.golang.org/api/option"

	"github.com/basetopia/basetopia-backend/internal/llm"
)

// Cloud calls the Cloud Translation v3 API.
type Cloud struct {
	client *translateapi.TranslationClient
	parent string
}

// NewCloud dials Cloud Translation. credentialsFile may be empty to use
// application default credentials.
func NewCloud(ctx context.Context, projectID, location, credentialsFile string) (*Cloud, error) {
	if projectID == "" {
		return nil, errors.New("cloud translation requires a project id")
	}
	if location == "" {
		location = "global"
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := translateapi.NewTranslationClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation client: %w", err)
	}
	return &Cloud{
		client: client,
		parent: fmt.Sprintf("projects/%s/locations/%s", projectID, location),
	}, nil
}

func (c *Cloud) Translate(ctx context.Context, text, target, source string) (string, error) {
	resp, err := c.client.TranslateText(ctx, &translatepb.TranslateTextRequest{
		Parent:             c.parent,
		Contents:           []string{text},
		MimeType:           "text/plain",
		TargetLanguageCode: target,
		SourceLanguageCode: source,
	})
	if err != nil {
		return "", err
	}
	translations := resp.GetTranslations()
	if len(translations) == 0 {
		return "", errors.New("translation response was empty")
	}
	return translations[0].GetTranslatedText(), nil
}

func (c *Cloud) Close() error {
	return c.client.Close()
}

// Gemini translates with a generative model.
type Gemini struct {
	Model llm.Model
}

const geminiInstruction = "You are a professional translator for baseball content. " +
	"Translate the user's text into the language with BCP-47 code %q%s. " +
	"Keep player names, team names and URLs unchanged. Reply with the translation only."

func (g Gemini) Translate(ctx context.Context, text, target, source string) (string, error) {
	from := ""
	if source != "" {
		from = fmt.Sprintf(" from %q", source)
	}
	return g.Model.Generate(ctx, llm.Request{
		System: fmt.Sprintf(geminiInstruction, target, from),
		Prompt: text,
	})
}
