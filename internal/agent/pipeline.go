package agent

import (
	"context"
	"slices"
	"strings"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/internal/translate"
)

// BaseLanguage is the language the agent reasons and writes in.
const BaseLanguage = "en"

// LocalizedKeys are the response fields sent to the translator.
var LocalizedKeys = []string{"title", "content", "description"}

var ErrUnsupportedLanguage = apperr.InvalidArgument("unsupported input_language")

// Draft is a generated post ready to be stored.
type Draft struct {
	PlayerTags       []string
	TeamTags         []string
	LocalizedContent map[string]models.LocalizedContent
}

// Pipeline runs the agent and localizes its answer.
type Pipeline struct {
	agent      *Agent
	tagger     *Tagger
	translator translate.Translator
	locales    []string
}

func NewPipeline(agent *Agent, tagger *Tagger, tr translate.Translator, locales []string) *Pipeline {
	return &Pipeline{agent: agent, tagger: tagger, translator: tr, locales: locales}
}

// Languages lists every language a response is produced in.
func (p *Pipeline) Languages() []string {
	return append([]string{BaseLanguage}, p.locales...)
}

// Query answers in the base language plus every configured locale.
func (p *Pipeline) Query(ctx context.Context, query, inputLanguage string) (map[string]translate.Tree, error) {
	if inputLanguage == "" {
		inputLanguage = BaseLanguage
	}
	if !slices.Contains(p.Languages(), inputLanguage) {
		return nil, ErrUnsupportedLanguage
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if inputLanguage != BaseLanguage {
		translated, err := p.translator.Translate(ctx, query, BaseLanguage, inputLanguage)
		if err != nil {
			return nil, err
		}
		query = translated
	}

	answer, err := p.agent.Answer(ctx, query)
	if err != nil {
		return nil, err
	}
	return p.localize(ctx, answer)
}

// Draft answers query, tags the answer and localizes it into a post body.
func (p *Pipeline) Draft(ctx context.Context, query string) (*Draft, error) {
	answer, err := p.agent.Answer(ctx, query)
	if err != nil {
		return nil, err
	}
	tags, err := p.tagger.Tag(ctx, answer)
	if err != nil {
		return nil, err
	}
	trees, err := p.localize(ctx, answer)
	if err != nil {
		return nil, err
	}

	content := make(map[string]models.LocalizedContent, len(trees))
	for lang, tree := range trees {
		var lc models.LocalizedContent
		if err := translate.Into(tree, &lc); err != nil {
			return nil, err
		}
		content[lang] = lc
	}
	return &Draft{
		PlayerTags:       tags.PlayerIDs,
		TeamTags:         tags.TeamIDs,
		LocalizedContent: content,
	}, nil
}

func (p *Pipeline) localize(ctx context.Context, answer *models.LocalizedContent) (map[string]translate.Tree, error) {
	tree, err := translate.FromValue(answer)
	if err != nil {
		return nil, err
	}
	out, err := translate.LocalizeAll(ctx, p.translator, tree, p.locales, LocalizedKeys)
	if err != nil {
		return nil, err
	}
	out[BaseLanguage] = tree
	return out, nil
}
