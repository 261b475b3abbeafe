package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"heroforge/internal/check"
	"heroforge/internal/logger"
	"heroforge/internal/store"
	"heroforge/internal/story"
)

type GenerateStoryInput struct {
	Save bool `json:"save,omitempty" jsonschema:"persist the story and return its id"`
}

type GetStoryInput struct {
	ID string `json:"id" jsonschema:"story id"`
}

type ListStoriesInput struct{}

type SearchStoriesInput struct {
	Query string `json:"query" jsonschema:"search terms; quotes, OR and -term are supported"`
}

type RegenerateBeatInput struct {
	ID   string `json:"id" jsonschema:"story id"`
	Beat string `json:"beat" jsonschema:"beat index 0-11 or name such as ordeal"`
}

type FieldInput struct {
	ID   string `json:"id" jsonschema:"story id"`
	Path string `json:"path" jsonschema:"field path such as hero.name, 1.becauseOf or 0.hero.mods.2"`
}

type SetFieldInput struct {
	ID   string `json:"id" jsonschema:"story id"`
	Path string `json:"path" jsonschema:"field path"`
	Text string `json:"text" jsonschema:"replacement text"`
}

type RemoveModifierInput struct {
	ID    string `json:"id" jsonschema:"story id"`
	Path  string `json:"path" jsonschema:"path of the entity, place or modifier list"`
	Label string `json:"label" jsonschema:"modifier label to remove"`
}

type RenameModifierInput struct {
	ID   string `json:"id" jsonschema:"story id"`
	Path string `json:"path" jsonschema:"path of the entity, place or modifier list"`
	From string `json:"from" jsonschema:"current label"`
	To   string `json:"to" jsonschema:"new label"`
}

type ExportMarkdownInput struct {
	ID  string `json:"id" jsonschema:"story id"`
	Act int    `json:"act,omitempty" jsonschema:"act 1-3; omit for the whole outline"`
}

type StoryOutput struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Revision    int            `json:"revision,omitempty"`
	Markdown    string         `json:"markdown"`
	Story       map[string]any `json:"story,omitempty"`
	Regenerated []int          `json:"regenerated,omitempty"`
}

type StorySummaryOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Revision  int    `json:"revision"`
	UpdatedAt string `json:"updated_at"`
}

type ListStoriesOutput struct {
	Stories []StorySummaryOutput `json:"stories"`
}

type SearchResultOutput struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

type SearchStoriesOutput struct {
	Results []SearchResultOutput `json:"results"`
}

type MarkdownOutput struct {
	Markdown string `json:"markdown"`
}

type IssueOutput struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Path     string `json:"path,omitempty"`
}

type CheckOutput struct {
	Issues    []IssueOutput `json:"issues"`
	HasErrors bool          `json:"has_errors"`
}

type MotifFieldOutput struct {
	Path string `json:"path"`
	Text string `json:"text"`
	Pool string `json:"pool"`
}

type ModifierListOutput struct {
	Path   string   `json:"path"`
	Labels []string `json:"labels"`
}

type DerivedFieldOutput struct {
	Path   string `json:"path"`
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

type ListFieldsOutput struct {
	Motifs        []MotifFieldOutput   `json:"motifs"`
	ModifierLists []ModifierListOutput `json:"modifier_lists"`
	Derived       []DerivedFieldOutput `json:"derived"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_story",
		Description: "Generate a new twelve-beat Hero's Journey outline",
	}, s.handleGenerateStory)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_story",
		Description: "Retrieve a saved story as JSON and markdown",
	}, s.handleGetStory)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_stories",
		Description: "List saved stories, most recently edited first",
	}, s.handleListStories)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_stories",
		Description: "Full-text search over saved outlines",
	}, s.handleSearchStories)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_fields",
		Description: "List the editable field paths of a story",
	}, s.handleListFields)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "regenerate_beat",
		Description: "Regenerate one beat and the beats that depend on it",
	}, s.handleRegenerateBeat)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "reroll_field",
		Description: "Redraw a motif from the pool it came from",
	}, s.handleRerollField)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "set_field",
		Description: "Replace the text of a field",
	}, s.handleSetField)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "clear_field",
		Description: "Clear an optional field or remove a list entry",
	}, s.handleClearField)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "add_modifier",
		Description: "Add an unused catalog modifier to an entity or place",
	}, s.handleAddModifier)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "remove_modifier",
		Description: "Remove a modifier by label",
	}, s.handleRemoveModifier)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "rename_modifier",
		Description: "Rename a modifier label",
	}, s.handleRenameModifier)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "export_markdown",
		Description: "Render a story or one of its acts as markdown",
	}, s.handleExportMarkdown)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "check_story",
		Description: "Report consistency problems in a saved story",
	}, s.handleCheckStory)
}

func (s *Server) handleGenerateStory(ctx context.Context, req *sdk.CallToolRequest, input GenerateStoryInput) (*sdk.CallToolResult, StoryOutput, error) {
	generated := s.engine.Generate()
	rec := store.NewRecord(generated, 0)
	if input.Save {
		if err := s.db.SaveStory(ctx, rec); err != nil {
			return nil, StoryOutput{}, err
		}
		logger.Info("story generated", "id", rec.ID, "title", rec.Title)
	}
	out, err := storyOutput(rec, generated)
	if err != nil {
		return nil, StoryOutput{}, err
	}
	if !input.Save {
		out.Title = generated.Title()
	}
	return nil, out, nil
}

func (s *Server) handleGetStory(ctx context.Context, req *sdk.CallToolRequest, input GetStoryInput) (*sdk.CallToolResult, StoryOutput, error) {
	rec, err := s.load(ctx, input.ID)
	if err != nil {
		return nil, StoryOutput{}, err
	}
	out, err := storyOutput(rec, rec.Story)
	if err != nil {
		return nil, StoryOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleListStories(ctx context.Context, req *sdk.CallToolRequest, input ListStoriesInput) (*sdk.CallToolResult, ListStoriesOutput, error) {
	items, err := s.db.ListStories(ctx)
	if err != nil {
		return nil, ListStoriesOutput{}, err
	}

	output := make([]StorySummaryOutput, 0, len(items))
	for _, item := range items {
		output = append(output, StorySummaryOutput{
			ID:        item.ID,
			Title:     item.Title,
			Revision:  item.Revision,
			UpdatedAt: item.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return nil, ListStoriesOutput{Stories: output}, nil
}

func (s *Server) handleSearchStories(ctx context.Context, req *sdk.CallToolRequest, input SearchStoriesInput) (*sdk.CallToolResult, SearchStoriesOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchStoriesOutput{}, fmt.Errorf("query is required")
	}
	results, err := s.db.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchStoriesOutput{}, err
	}

	output := make([]SearchResultOutput, 0, len(results))
	for _, r := range results {
		output = append(output, SearchResultOutput{ID: r.ID, Title: r.Title, Score: r.Score, Snippet: r.Snippet})
	}
	return nil, SearchStoriesOutput{Results: output}, nil
}

func (s *Server) handleListFields(ctx context.Context, req *sdk.CallToolRequest, input GetStoryInput) (*sdk.CallToolResult, ListFieldsOutput, error) {
	rec, err := s.load(ctx, input.ID)
	if err != nil {
		return nil, ListFieldsOutput{}, err
	}

	out := ListFieldsOutput{
		Motifs:        []MotifFieldOutput{},
		ModifierLists: []ModifierListOutput{},
		Derived:       []DerivedFieldOutput{},
	}
	for _, f := range rec.Story.MotifFields() {
		out.Motifs = append(out.Motifs, MotifFieldOutput{Path: f.Path, Text: f.Value.Text, Pool: string(f.Value.Pool)})
	}
	for _, l := range rec.Story.ModifierLists() {
		labels := make([]string, 0, len(l.Mods))
		for _, m := range l.Mods {
			labels = append(labels, m.Label)
		}
		out.ModifierLists = append(out.ModifierLists, ModifierListOutput{Path: l.Path, Labels: labels})
	}
	for _, f := range rec.Story.DerivedFields() {
		d := DerivedFieldOutput{Path: f.Path, Text: f.Value.Text}
		if f.Value.Ref != nil {
			d.Source = string(f.Value.Ref.Source) + "." + f.Value.Ref.Label
		}
		out.Derived = append(out.Derived, d)
	}
	return nil, out, nil
}

func (s *Server) handleRegenerateBeat(ctx context.Context, req *sdk.CallToolRequest, input RegenerateBeatInput) (*sdk.CallToolResult, StoryOutput, error) {
	kind, err := story.ParseKind(input.Beat)
	if err != nil {
		return nil, StoryOutput{}, err
	}
	var changed []int
	out, err := s.edit(ctx, input.ID, func(st *story.Story) (*story.Story, error) {
		next, indices, err := s.engine.Regenerate(st, int(kind))
		changed = indices
		return next, err
	})
	if err != nil {
		return nil, StoryOutput{}, err
	}
	out.Regenerated = changed
	return nil, out, nil
}

func (s *Server) handleRerollField(ctx context.Context, req *sdk.CallToolRequest, input FieldInput) (*sdk.CallToolResult, StoryOutput, error) {
	out, err := s.editPath(ctx, input.ID, input.Path, func(st *story.Story) (*story.Story, error) {
		return s.engine.Reroll(st, input.Path)
	})
	return nil, out, err
}

func (s *Server) handleSetField(ctx context.Context, req *sdk.CallToolRequest, input SetFieldInput) (*sdk.CallToolResult, StoryOutput, error) {
	out, err := s.editPath(ctx, input.ID, input.Path, func(st *story.Story) (*story.Story, error) {
		return s.engine.SetText(st, input.Path, input.Text)
	})
	return nil, out, err
}

func (s *Server) handleClearField(ctx context.Context, req *sdk.CallToolRequest, input FieldInput) (*sdk.CallToolResult, StoryOutput, error) {
	out, err := s.editPath(ctx, input.ID, input.Path, func(st *story.Story) (*story.Story, error) {
		return s.engine.Clear(st, input.Path)
	})
	return nil, out, err
}

func (s *Server) handleAddModifier(ctx context.Context, req *sdk.CallToolRequest, input FieldInput) (*sdk.CallToolResult, StoryOutput, error) {
	out, err := s.editPath(ctx, input.ID, input.Path, func(st *story.Story) (*story.Story, error) {
		return s.engine.AddModifier(st, input.Path)
	})
	return nil, out, err
}

func (s *Server) handleRemoveModifier(ctx context.Context, req *sdk.CallToolRequest, input RemoveModifierInput) (*sdk.CallToolResult, StoryOutput, error) {
	if input.Label == "" {
		return nil, StoryOutput{}, fmt.Errorf("label is required")
	}
	out, err := s.editPath(ctx, input.ID, input.Path, func(st *story.Story) (*story.Story, error) {
		return s.engine.RemoveModifier(st, input.Path, input.Label)
	})
	return nil, out, err
}

func (s *Server) handleRenameModifier(ctx context.Context, req *sdk.CallToolRequest, input RenameModifierInput) (*sdk.CallToolResult, StoryOutput, error) {
	if input.From == "" || input.To == "" {
		return nil, StoryOutput{}, fmt.Errorf("from and to are required")
	}
	out, err := s.editPath(ctx, input.ID, input.Path, func(st *story.Story) (*story.Story, error) {
		return s.engine.RenameModifier(st, input.Path, input.From, input.To)
	})
	return nil, out, err
}

func (s *Server) handleExportMarkdown(ctx context.Context, req *sdk.CallToolRequest, input ExportMarkdownInput) (*sdk.CallToolResult, MarkdownOutput, error) {
	rec, err := s.load(ctx, input.ID)
	if err != nil {
		return nil, MarkdownOutput{}, err
	}
	if input.Act == 0 {
		return nil, MarkdownOutput{Markdown: story.Markdown(rec.Story)}, nil
	}
	md, err := story.ActMarkdown(rec.Story, input.Act)
	if err != nil {
		return nil, MarkdownOutput{}, err
	}
	return nil, MarkdownOutput{Markdown: md}, nil
}

func (s *Server) handleCheckStory(ctx context.Context, req *sdk.CallToolRequest, input GetStoryInput) (*sdk.CallToolResult, CheckOutput, error) {
	rec, err := s.load(ctx, input.ID)
	if err != nil {
		return nil, CheckOutput{}, err
	}
	report, err := check.Run(rec.Story)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	out := CheckOutput{Issues: make([]IssueOutput, 0, len(report.Issues)), HasErrors: report.HasErrors()}
	for _, issue := range report.Issues {
		out.Issues = append(out.Issues, IssueOutput{
			Severity: string(issue.Severity),
			Code:     issue.Code,
			Message:  issue.Message,
			Path:     issue.Path,
		})
	}
	return nil, out, nil
}

func (s *Server) load(ctx context.Context, id string) (*store.StoryRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id is required")
	}
	return s.db.GetStory(ctx, id)
}

func (s *Server) editPath(ctx context.Context, id, path string, fn func(*story.Story) (*story.Story, error)) (StoryOutput, error) {
	if strings.TrimSpace(path) == "" {
		return StoryOutput{}, fmt.Errorf("path is required")
	}
	return s.edit(ctx, id, fn)
}

// edit loads a story, applies fn and saves the result as a new revision.
func (s *Server) edit(ctx context.Context, id string, fn func(*story.Story) (*story.Story, error)) (StoryOutput, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return StoryOutput{}, err
	}
	next, err := fn(rec.Story)
	if err != nil {
		return StoryOutput{}, err
	}
	rec.Story = next
	if err := s.db.SaveStory(ctx, rec); err != nil {
		return StoryOutput{}, err
	}
	logger.Debug("story edited", "id", rec.ID, "revision", rec.Revision)
	return storyOutput(rec, next)
}

func storyOutput(rec *store.StoryRecord, s *story.Story) (StoryOutput, error) {
	data, err := story.Encode(s)
	if err != nil {
		return StoryOutput{}, err
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return StoryOutput{}, fmt.Errorf("decoding story output: %w", err)
	}
	return StoryOutput{
		ID:       rec.ID,
		Title:    rec.Title,
		Revision: rec.Revision,
		Markdown: story.Markdown(s),
		Story:    tree,
	}, nil
}
