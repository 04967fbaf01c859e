package prompt

import (
	"strings"

	"legifai-be/pkg/llm"
	"legifai-be/pkg/rag/stage"
	"legifai-be/pkg/store"
)

// NoHistoryMarker stands in for the transcript on the first turn.
const NoHistoryMarker = "(sin conversación previa)"

const persona = `Eres un servicial asesor legal. El siguiente contexto incluye extractos de artículos del BOE para ayudar a aconsejar al usuario sobre su consulta legal.
Se conciso. Asume que el usuario sabe que eres un asesor legal que tiene todos los conocimientos necesarios para ayudarle.
Ve directamente al grano, menciona los artículos del BOE que apliquen durante la explicación.`

var directives = map[stage.Stage]string{
	stage.Initial: "Es la primera pregunta del usuario. Proporciona una respuesta breve y concisa mencionando los artículos del BOE relevantes. " +
		"Luego, formula 2-3 preguntas específicas para entender mejor el caso.",
	stage.Followup: "El usuario ya respondió tus preguntas. SOLO presenta una conclusión breve indicando que te harás cargo del caso, " +
		"seguido de un resumen técnico muy conciso dirigido a un abogado. NO hagas más preguntas en esta etapa.",
	stage.Subsequent: "Simplemente agradece al usuario y reitera que su caso será atendido. No añadas contenido legal nuevo.",
}

// Request is the structured generation payload for one turn.
type Request struct {
	Stage       stage.Stage
	Instruction string
	Context     string
	History     string
	Message     string
}

// Builder assembles generation requests. It never talks to a model.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build renders excerpts in the order given and turns oldest first.
func (b *Builder) Build(st stage.Stage, excerpts []store.DocumentExcerpt, turns []store.Turn, message string) *Request {
	return &Request{
		Stage:       st,
		Instruction: buildInstruction(st),
		Context:     joinExcerpts(excerpts),
		History:     renderHistory(turns),
		Message:     message,
	}
}

func buildInstruction(st stage.Stage) string {
	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\n<stage>")
	sb.WriteString(string(st))
	sb.WriteString("</stage>\n")
	sb.WriteString(directives[st])
	return sb.String()
}

func joinExcerpts(excerpts []store.DocumentExcerpt) string {
	parts := make([]string, 0, len(excerpts))
	for _, e := range excerpts {
		parts = append(parts, e.Content)
	}
	return strings.Join(parts, "\n\n")
}

func renderHistory(turns []store.Turn) string {
	if len(turns) == 0 {
		return NoHistoryMarker
	}

	var sb strings.Builder
	for i, t := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Usuario: ")
		sb.WriteString(t.UserText)
		sb.WriteString("\nAsistente: ")
		sb.WriteString(t.AssistantText)
	}
	return sb.String()
}

// Prompt flattens the request into a single completion prompt.
func (r *Request) Prompt() string {
	var sb strings.Builder
	sb.WriteString(r.Instruction)
	sb.WriteString("\n\n")
	r.writeBody(&sb)
	return sb.String()
}

// Messages renders the request for chat-style providers: the instruction as
// the system message, everything else as one user message.
func (r *Request) Messages() []llm.Message {
	var sb strings.Builder
	r.writeBody(&sb)
	return []llm.Message{
		{Role: "system", Content: r.Instruction},
		{Role: "user", Content: sb.String()},
	}
}

func (r *Request) writeBody(sb *strings.Builder) {
	sb.WriteString("<historial>\n")
	sb.WriteString(r.History)
	sb.WriteString("\n</historial>\n\n")
	sb.WriteString("Contexto: ")
	sb.WriteString(r.Context)
	sb.WriteString("\n\nPregunta: ")
	sb.WriteString(r.Message)
}
