package prompt

import (
	"strings"
)

// ContextDelimiter visibly separates retrieved chunks inside the prompt so
// the model can tell source boundaries apart.
const ContextDelimiter = "\n---\n"

// SystemPersona is the fixed system-role message for answer generation.
const SystemPersona = "You are a professional research assistant."

// ContextualBuilder assembles the question-answering prompt from retrieved
// context chunks and the user's question.
type ContextualBuilder struct {
	contextChunks []string
	question      string
}

// NewContextualBuilder creates a new contextual prompt builder
func NewContextualBuilder(contextChunks []string, question string) *ContextualBuilder {
	return &ContextualBuilder{
		contextChunks: contextChunks,
		question:      question,
	}
}

// Build creates the user-role prompt: grounding instruction, the joined
// context block, and the literal question.
func (b *ContextualBuilder) Build() string {
	var prompt strings.Builder

	b.writeInstruction(&prompt)
	b.writeContext(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *ContextualBuilder) writeInstruction(prompt *strings.Builder) {
	prompt.WriteString("Use the following pieces of context to answer the question at the end.\n")
	prompt.WriteString("If you don't know the answer, just say that you don't know, don't try to make up an answer.\n")
	prompt.WriteString("Keep the answer concise and professional.\n\n")
}

func (b *ContextualBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("Context:\n")
	prompt.WriteString(strings.Join(b.contextChunks, ContextDelimiter))
	prompt.WriteString("\n\n")
}

func (b *ContextualBuilder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("Question: ")
	prompt.WriteString(b.question)
	prompt.WriteString("\nHelpful Answer:")
}
