// Package prompts renders the prompt templates sent to models.
package prompts

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/spf13/afero"
)

const (
	// ChatGreeting opens a plain chat.
	ChatGreeting = "How can I help you?"

	// SearchGreeting opens a search-assisted chat.
	SearchGreeting = "Hi, I'm a chatbot who can search the web. How can I help you?"

	// QuickstartPrompt is the default text for a single prompt.
	QuickstartPrompt = "What are 3 key advice for learning how to code?"
)

const templateExt = ".tmpl"

// Built-in template names.
const (
	ArticleQuestionTemplate = "article_question"
	BlogOutlineTemplate     = "blog_outline"
	SummarizeTemplate       = "summarize"
)

var (
	// ErrEmptyInput is returned when a required template value is blank
	ErrEmptyInput = errors.New("prompt input is empty")

	// ErrUnknownTemplate is returned for template names that are not loaded
	ErrUnknownTemplate = errors.New("unknown prompt template")
)

//go:embed templates/*.tmpl
var builtin embed.FS

// Set is a collection of named prompt templates.
type Set struct {
	templates map[string]*template.Template
}

// Default returns the built-in templates.
func Default() *Set {
	s, err := load(afero.FromIOFS{FS: builtin}, "templates")
	if err != nil {
		panic(fmt.Sprintf("prompts: built-in templates: %v", err))
	}
	return s
}

// LoadDir returns the built-in templates overlaid with the *.tmpl files in
// dir. A missing dir is not an error.
func LoadDir(fsys afero.Fs, dir string) (*Set, error) {
	s := Default()

	exists, err := afero.DirExists(fsys, dir)
	if err != nil || !exists {
		return s, err
	}

	user, err := load(fsys, dir)
	if err != nil {
		return nil, err
	}
	for name, t := range user.templates {
		s.templates[name] = t
	}
	return s, nil
}

func load(fsys afero.Fs, dir string) (*Set, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	s := &Set{templates: make(map[string]*template.Template)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), templateExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), templateExt)

		data, err := afero.ReadFile(fsys, filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		t, err := template.New(name).
			Funcs(sprig.TxtFuncMap()).
			Option("missingkey=zero").
			Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", entry.Name(), err)
		}
		s.templates[name] = t
	}
	return s, nil
}

// Names returns the loaded template names in order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template with data. Trailing newlines are removed.
func (s *Set) Render(name string, data any) (string, error) {
	t, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// ArticleQuestion builds the prompt asking question about article.
func (s *Set) ArticleQuestion(article, question string) (string, error) {
	if strings.TrimSpace(article) == "" {
		return "", fmt.Errorf("%w: article", ErrEmptyInput)
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question", ErrEmptyInput)
	}
	return s.Render(ArticleQuestionTemplate, map[string]string{
		"Article":  article,
		"Question": question,
	})
}

// BlogOutline builds the prompt asking for a blog outline about topic.
func (s *Set) BlogOutline(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("%w: topic", ErrEmptyInput)
	}
	return s.Render(BlogOutlineTemplate, map[string]string{"Topic": topic})
}
