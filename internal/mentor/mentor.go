// Package mentor wraps the hosted generative-language API used by the chat
// mentor, note summaries, quizzes, career advice and idea generation.
//
// Calls are single shot. There is no retry or streaming; a failed request
// is reported to the caller as is.
package mentor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

var (
	ErrNoAPIKey      = errors.New("no API key configured")
	ErrEmptyResponse = errors.New("model returned no text")
)

type Mode string

const (
	ModeExplain  Mode = "EXPLAIN"
	ModeExam     Mode = "EXAM"
	ModeTeaching Mode = "TEACHING"
	ModeSimplify Mode = "SIMPLIFY"
	ModeResearch Mode = "RESEARCH"
)

// Modes lists chat modes in menu order.
var Modes = []Mode{ModeExplain, ModeExam, ModeTeaching, ModeSimplify, ModeResearch}

var instructions = map[Mode]string{
	ModeExplain:  "You are an expert tutor. Provide detailed, step-by-step explanations.",
	ModeExam:     "You are an exam coach. Focus on high-yield keywords and exam-style answers.",
	ModeTeaching: "You are a Socratic teacher. Ask questions to lead the student to the answer.",
	ModeSimplify: "Explain like I'm 10 years old using simple analogies.",
	ModeResearch: "You are a research assistant. Use Google Search to find current academic sources, news, and verified data. Always cite your findings.",
}

// Instruction returns the system instruction for mode, defaulting to
// ModeExplain.
func Instruction(m Mode) string {
	if s, ok := instructions[m]; ok {
		return s
	}
	return instructions[ModeExplain]
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

type Message struct {
	Role string
	Text string
}

type Source struct {
	Title string
	URI   string
}

type Reply struct {
	Text    string
	Sources []Source
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

type Idea struct {
	Title            string   `json:"title"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Description      string   `json:"description"`
	TechStack        []string `json:"techStack"`
	LearningOutcomes []string `json:"learningOutcomes"`
}

// Generator is the AI surface the rest of the application depends on.
type Generator interface {
	Chat(ctx context.Context, mode Mode, history []Message, message string) (Reply, error)
	Summarize(ctx context.Context, content string) (string, error)
	Quiz(ctx context.Context, topic string) (Quiz, error)
	CareerAdvice(ctx context.Context, interests, strengths string) (string, error)
	Ideas(ctx context.Context, interests, focus string) ([]Idea, error)
}

type Options struct {
	APIKey        string
	ChatModel     string
	ResearchModel string
	Endpoint      string
	// Extra client options, e.g. option.WithHTTPClient in tests.
	ClientOptions []option.ClientOption
}

// Client talks to the generative-language REST API.
type Client struct {
	svc           *generativelanguage.Service
	chatModel     string
	researchModel string
}

var _ Generator = (*Client)(nil)

// New builds a Client. An empty API key is rejected unless the caller
// supplies its own transport through ClientOptions.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" && len(opts.ClientOptions) == 0 {
		return nil, ErrNoAPIKey
	}
	var copts []option.ClientOption
	if opts.APIKey != "" {
		copts = append(copts, option.WithAPIKey(opts.APIKey))
	}
	if opts.Endpoint != "" {
		copts = append(copts, option.WithEndpoint(opts.Endpoint))
	}
	copts = append(copts, opts.ClientOptions...)

	svc, err := generativelanguage.NewService(ctx, copts...)
	if err != nil {
		return nil, fmt.Errorf("create generative language service: %w", err)
	}
	c := &Client{
		svc:           svc,
		chatModel:     opts.ChatModel,
		researchModel: opts.ResearchModel,
	}
	if c.chatModel == "" {
		c.chatModel = "gemini-3-flash-preview"
	}
	if c.researchModel == "" {
		c.researchModel = "gemini-3-pro-preview"
	}
	return c, nil
}

func modelName(m string) string {
	if strings.HasPrefix(m, "models/") {
		return m
	}
	return "models/" + m
}

func userContent(text string) *generativelanguage.Content {
	return &generativelanguage.Content{
		Role:  RoleUser,
		Parts: []*generativelanguage.Part{{Text: text}},
	}
}

func (c *Client) generate(ctx context.Context, model string, req *generativelanguage.GenerateContentRequest) (*generativelanguage.GenerateContentResponse, string, error) {
	resp, err := c.svc.Models.GenerateContent(modelName(model), req).Context(ctx).Do()
	if err != nil {
		return nil, "", fmt.Errorf("generate content: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return resp, "", ErrEmptyResponse
	}
	return resp, text, nil
}

func responseText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range cand.Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

func responseSources(resp *generativelanguage.GenerateContentResponse) []Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var out []Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		out = append(out, Source{Title: chunk.Web.Title, URI: chunk.Web.Uri})
	}
	return out
}

// Chat sends message after history using the system instruction for mode.
// Research mode uses the research model with search grounding.
func (c *Client) Chat(ctx context.Context, mode Mode, history []Message, message string) (Reply, error) {
	contents := make([]*generativelanguage.Content, 0, len(history)+1)
	for _, m := range history {
		role := m.Role
		if role != RoleModel {
			role = RoleUser
		}
		contents = append(contents, &generativelanguage.Content{
			Role:  role,
			Parts: []*generativelanguage.Part{{Text: m.Text}},
		})
	}
	contents = append(contents, userContent(message))

	req := &generativelanguage.GenerateContentRequest{
		Contents: contents,
		SystemInstruction: &generativelanguage.Content{
			Parts: []*generativelanguage.Part{{Text: Instruction(mode)}},
		},
		GenerationConfig: &generativelanguage.GenerationConfig{Temperature: 0.7},
	}
	model := c.chatModel
	if mode == ModeResearch {
		model = c.researchModel
		req.Tools = []*generativelanguage.Tool{{GoogleSearch: &generativelanguage.GoogleSearch{}}}
	}

	resp, text, err := c.generate(ctx, model, req)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, Sources: responseSources(resp)}, nil
}

func (c *Client) Summarize(ctx context.Context, content string) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			userContent("Summarize the following study note into key takeaways:\n\n" + content),
		},
	}
	_, text, err := c.generate(ctx, c.chatModel, req)
	return text, err
}

func (c *Client) CareerAdvice(ctx context.Context, interests, strengths string) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			userContent(fmt.Sprintf("Suggest 3 career paths for interests: %q and strengths: %q.", interests, strengths)),
		},
	}
	_, text, err := c.generate(ctx, c.chatModel, req)
	return text, err
}

func (c *Client) Quiz(ctx context.Context, topic string) (Quiz, error) {
	var q Quiz
	prompt := fmt.Sprintf("Generate a quiz about: %s\n\nRespond with JSON of the form "+
		`{"questions":[{"question":"","options":[""],"correctAnswer":"","explanation":""}]}`, topic)
	if err := c.generateJSON(ctx, prompt, &q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (c *Client) Ideas(ctx context.Context, interests, focus string) ([]Idea, error) {
	var out struct {
		Ideas []Idea `json:"ideas"`
	}
	prompt := fmt.Sprintf("Generate 3 project ideas for interests: %q and focus: %q.\n\nRespond with JSON of the form "+
		`{"ideas":[{"title":"","type":"","difficulty":"","description":"","techStack":[""],"learningOutcomes":[""]}]}`,
		interests, focus)
	if err := c.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return out.Ideas, nil
}

func (c *Client) generateJSON(ctx context.Context, prompt string, v any) error {
	req := &generativelanguage.GenerateContentRequest{
		Contents:         []*generativelanguage.Content{userContent(prompt)},
		GenerationConfig: &generativelanguage.GenerationConfig{ResponseMimeType: "application/json"},
	}
	_, text, err := c.generate(ctx, c.chatModel, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripFence(text)), v); err != nil {
		return fmt.Errorf("decode model json: %w", err)
	}
	return nil
}

// stripFence removes a ```json fence some models wrap JSON replies in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
