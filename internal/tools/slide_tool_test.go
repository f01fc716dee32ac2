package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchforge/internal/model"
)

type stubCompleter struct {
	out     string
	err     error
	noKey   bool
	prompts []string
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.out, s.err
}

func (s *stubCompleter) HasCredential() bool { return !s.noKey }

func TestRunParsesJSON(t *testing.T) {
	c := &stubCompleter{out: `{"title":"Whatever","content":"Real market content."}`}
	slide, genErr, err := NewSlideTool(c, nil).Run(context.Background(), SlideToolArgs{
		Idea: "idea", SlideType: model.SlideMarket, UseCase: model.UseCaseApp, Theme: model.ThemeModern, Index: 2,
	})
	require.NoError(t, err)
	require.NoError(t, genErr)
	assert.Equal(t, model.Slide{ID: "slide-3", Title: "Market", Content: "Real market content.", Origin: model.OriginGenerated}, slide)
	require.Len(t, c.prompts, 1)
}

func TestRunRawTextVerbatim(t *testing.T) {
	c := &stubCompleter{out: "Not JSON at all, just prose."}
	slide, genErr, err := NewSlideTool(c, nil).Run(context.Background(), SlideToolArgs{SlideType: model.SlideProduct})
	require.NoError(t, err)
	require.NoError(t, genErr)
	assert.Equal(t, "Product", slide.Title)
	assert.Equal(t, "Not JSON at all, just prose.", slide.Content)
	assert.Equal(t, model.OriginGenerated, slide.Origin)
}

func TestRunFencedReplyKeptVerbatim(t *testing.T) {
	fenced := "```json\n{\"title\":\"Team\",\"content\":\"Inner.\"}\n```"
	c := &stubCompleter{out: "\n" + fenced + "\n"}
	slide, genErr, err := NewSlideTool(c, nil).Run(context.Background(), SlideToolArgs{SlideType: model.SlideTeam})
	require.NoError(t, err)
	require.NoError(t, genErr)
	assert.Equal(t, fenced, slide.Content)
	assert.Equal(t, model.OriginGenerated, slide.Origin)
}

func TestRunFallsBackOnError(t *testing.T) {
	upstream := errors.New("gemini http 500")
	c := &stubCompleter{err: upstream}
	slide, genErr, err := NewSlideTool(c, nil).Run(context.Background(), SlideToolArgs{
		SlideType: model.SlideProblem, UseCase: model.UseCaseAgency,
	})
	require.NoError(t, err)
	require.ErrorIs(t, genErr, upstream)
	assert.Equal(t, model.OriginFallback, slide.Origin)
	assert.Equal(t, FallbackContent(model.SlideProblem, model.UseCaseAgency), slide.Content)
	assert.Contains(t, slide.Content, "in the agency space.")
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &stubCompleter{err: context.Canceled}
	_, _, err := NewSlideTool(c, nil).Run(ctx, SlideToolArgs{SlideType: model.SlideTeam})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvokableRun(t *testing.T) {
	c := &stubCompleter{out: `{"title":"Team","content":"Great team."}`}
	tool := NewSlideTool(c, nil)

	out, err := tool.InvokableRun(context.Background(), `{"idea":"x","slide_type":"Team","index":4}`)
	require.NoError(t, err)

	var resp SlideToolResp
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "slide-5", resp.Slide.ID)
	assert.Equal(t, "Great team.", resp.Slide.Content)
	assert.Empty(t, resp.Error)
	assert.Contains(t, c.prompts[0], "use case: 'startup', theme: 'modern'")
}

func TestInvokableRunValidation(t *testing.T) {
	tool := NewSlideTool(&stubCompleter{}, nil)
	_, err := tool.InvokableRun(context.Background(), `{"idea":"x"}`)
	assert.Error(t, err)

	_, err = tool.InvokableRun(context.Background(), `not json`)
	assert.Error(t, err)

	noKey := NewSlideTool(&stubCompleter{noKey: true}, nil)
	_, err = noKey.InvokableRun(context.Background(), `{"slide_type":"Team"}`)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestInfo(t *testing.T) {
	info, err := NewSlideTool(&stubCompleter{}, nil).Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "slide_generate", info.Name)
}

func TestParseSlideText(t *testing.T) {
	cases := map[string]struct{ in, want string }{
		"json":          {`{"title":"Problem","content":"c"}`, "c"},
		"fenced json":   {"```json\n{\"title\":\"Problem\",\"content\":\"c\"}\n```", "```json\n{\"title\":\"Problem\",\"content\":\"c\"}\n```"},
		"empty content": {`{"title":"Problem","content":""}`, `{"title":"Problem","content":""}`},
		"prose":         {"  plain text  ", "plain text"},
		"json string":   {`"quoted"`, `"quoted"`},
		"null":          {`null`, `null`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseSlideText(tc.in))
		})
	}
}

func TestFallbackContentUnknownType(t *testing.T) {
	got := FallbackContent(model.SlideType("Traction"), model.UseCaseStartup)
	assert.Equal(t, "Compelling traction content tailored for your startup presentation. Our solution addresses key market needs with innovative technology and proven results.", got)
	for _, st := range model.SlideTypes {
		assert.NotEmpty(t, FallbackContent(st, model.UseCaseStartup))
	}
}
