// Package prompt assembles chat-completion messages from a question,
// retrieved document context, and optional conversation history. The
// assembly is a pure transformation: no I/O, no validation of what the
// model eventually returns.
package prompt

import (
	"fmt"
	"strings"

	"github.com/avolkov/rag-backend/internal/entity"
)

var strategyFramings = map[entity.PromptStrategy]string{
	entity.StrategyStandard: "You are a highly knowledgeable AI assistant with expertise in analyzing " +
		"and explaining complex topics. Your responses should be comprehensive yet clear, " +
		"organized logically and delivered in a confident, professional tone.",
	entity.StrategyAcademic: "You are a scholarly AI assistant. Answer with academic rigor: define " +
		"terms precisely, cite which part of the supplied context supports each claim, and " +
		"keep a formal register throughout.",
	entity.StrategyConcise: "You are a precise AI assistant. Answer in as few sentences as possible " +
		"while remaining complete. No preamble, no restating the question.",
	entity.StrategyCreative: "You are an imaginative AI assistant. Use vivid language, analogies and " +
		"examples to make the answer engaging, while staying factually grounded.",
	entity.StrategyStepByStep: "You are a methodical AI assistant. Break the answer into numbered " +
		"steps, explaining the reasoning behind each step before moving to the next.",
}

var formatInstructions = map[entity.ResponseFormat]string{
	entity.FormatDefault:  "",
	entity.FormatJSON:     "Format the entire answer as a single JSON object with an \"answer\" field and, where useful, additional structured fields.",
	entity.FormatMarkdown: "Format the answer as Markdown with headings, emphasis and lists where they aid readability.",
	entity.FormatBulletPoints: "Format the answer as a bullet-point list. Each bullet should carry one " +
		"self-contained statement.",
}

const (
	strictInstruction = "Answer using ONLY the context supplied below. If the context does not " +
		"contain enough information to answer the question, say so explicitly instead of " +
		"guessing; never fabricate details that are not in the context."
	strictEmptyContext = "No context documents were retrieved for this question. State clearly " +
		"that you do not have enough information in the provided context to answer, and do " +
		"not answer from general knowledge."
	flexibleInstruction = "Prefer the context supplied below, but you may draw on your own " +
		"knowledge when the context is insufficient. Clearly mark which parts of the answer " +
		"go beyond the supplied context."
)

// Input collects everything the assembler needs for one question
type Input struct {
	Question string
	Mode     entity.ContextMode
	Strategy entity.PromptStrategy
	Format   entity.ResponseFormat
	Chunks   []string
	History  []*entity.Message
}

// Output is the assembled prompt plus its metadata
type Output struct {
	Messages []entity.ChatMessage
	Metadata entity.AskMetadata
}

// Build assembles the chat messages for one question. History messages are
// replayed in order between the system framing and the final user turn.
func Build(in Input) Output {
	system := buildSystem(in)

	messages := make([]entity.ChatMessage, 0, len(in.History)+2)
	messages = append(messages, entity.ChatMessage{
		Role:    "system",
		Content: system,
	})

	for _, msg := range in.History {
		messages = append(messages, entity.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	messages = append(messages, entity.ChatMessage{
		Role:    "user",
		Content: buildUser(in),
	})

	return Output{
		Messages: messages,
		Metadata: entity.AskMetadata{
			Strategy:               in.Strategy,
			ResponseFormat:         in.Format,
			ContextMode:            in.Mode,
			UsesOutsideContext:     in.Mode == entity.ModeFlexible,
			ContextChunksUsed:      len(in.Chunks),
			HasConversationHistory: len(in.History) > 0,
		},
	}
}

func buildSystem(in Input) string {
	parts := []string{strategyFramings[in.Strategy]}

	switch in.Mode {
	case entity.ModeStrict:
		if len(in.Chunks) == 0 {
			parts = append(parts, strictEmptyContext)
		} else {
			parts = append(parts, strictInstruction)
		}
	case entity.ModeFlexible:
		parts = append(parts, flexibleInstruction)
	}

	if instr := formatInstructions[in.Format]; instr != "" {
		parts = append(parts, instr)
	}

	return strings.Join(parts, "\n\n")
}

func buildUser(in Input) string {
	var b strings.Builder

	if len(in.Chunks) > 0 {
		b.WriteString("Context:\n")
		for i, chunk := range in.Chunks {
			fmt.Fprintf(&b, "[%d] %s\n\n", i+1, chunk)
		}
	} else {
		b.WriteString("Context: (no relevant documents were retrieved)\n\n")
	}

	b.WriteString("Question: ")
	b.WriteString(in.Question)

	return b.String()
}
