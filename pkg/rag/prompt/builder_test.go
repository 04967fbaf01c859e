package prompt

import (
	"strings"
	"testing"

	"legifai-be/pkg/rag/stage"
	"legifai-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFirstTurn(t *testing.T) {
	excerpts := []store.DocumentExcerpt{{Content: "Art. 1"}, {Content: "Art. 2"}}

	req := NewBuilder().Build(stage.Initial, excerpts, nil, "Me han despedido sin preaviso")

	assert.Contains(t, req.Instruction, "<stage>INITIAL</stage>")
	assert.Contains(t, req.Instruction, "2-3 preguntas")
	assert.Equal(t, "Art. 1\n\nArt. 2", req.Context)
	assert.Equal(t, NoHistoryMarker, req.History)
	assert.Equal(t, "Me han despedido sin preaviso", req.Message)
}

func TestBuildKeepsRankOrderAndDuplicates(t *testing.T) {
	excerpts := []store.DocumentExcerpt{{Content: "B"}, {Content: "A"}, {Content: "B"}}

	req := NewBuilder().Build(stage.Initial, excerpts, nil, "q")

	assert.Equal(t, "B\n\nA\n\nB", req.Context)
}

func TestBuildHistoryTranscript(t *testing.T) {
	turns := []store.Turn{
		{UserText: "u1", AssistantText: "a1"},
		{UserText: "u2", AssistantText: "a2"},
	}

	req := NewBuilder().Build(stage.Subsequent, nil, turns, "gracias")

	assert.Equal(t, "Usuario: u1\nAsistente: a1\nUsuario: u2\nAsistente: a2", req.History)
	assert.Contains(t, req.Instruction, "<stage>SUBSEQUENT</stage>")
	assert.Equal(t, "", req.Context)
}

func TestBuildStageDirectives(t *testing.T) {
	b := NewBuilder()
	followup := b.Build(stage.Followup, nil, nil, "q")
	assert.Contains(t, followup.Instruction, "NO hagas más preguntas")

	subsequent := b.Build(stage.Subsequent, nil, nil, "q")
	assert.Contains(t, subsequent.Instruction, "agradece")
}

func TestRequestRendering(t *testing.T) {
	req := NewBuilder().Build(stage.Followup, []store.DocumentExcerpt{{Content: "Art. 1"}},
		[]store.Turn{{UserText: "u1", AssistantText: "a1"}}, "Fue verbal, hace 2 semanas")

	msgs := req.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, req.Instruction, msgs[0].Content)
	assert.Equal(t, "user", msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "Usuario: u1")
	assert.Contains(t, msgs[1].Content, "Contexto: Art. 1")
	assert.True(t, strings.HasSuffix(msgs[1].Content, "Pregunta: Fue verbal, hace 2 semanas"))

	flat := req.Prompt()
	assert.True(t, strings.HasPrefix(flat, req.Instruction))
	assert.True(t, strings.HasSuffix(flat, msgs[1].Content))
}
