// Package translate converts provider JSON payloads into canonical entries.
//
// Each provider has its own Translator; callers choose one by the provider
// that issued the document, never by inspecting the payload. Missing
// optional structure is logged and skipped. Only a document that is not a
// JSON object is rejected.
package translate

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/jsondoc"
)

// DefaultKeywordSeparator joins keywords when Options leaves it unset.
const DefaultKeywordSeparator = ','

// Translator turns one provider's JSON schema into an entry.
type Translator interface {
	// Name returns the provider identifier (e.g., "bibjson", "springer").
	Name() string

	// Description returns a human-readable provider description.
	Description() string

	// Translate maps doc onto a new entry. It fails only when doc is nil.
	Translate(doc jsondoc.Object, opts Options) (*entry.Entry, error)
}

// Options configures a translation call.
type Options struct {
	// KeywordSeparator joins keywords inside the keywords field.
	KeywordSeparator rune

	// Logger receives partial-data diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.KeywordSeparator == 0 {
		o.KeywordSeparator = DefaultKeywordSeparator
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// TranslateJSON parses data and runs t over it. It returns
// jsondoc.ErrNotObject when data is valid JSON but not an object.
func TranslateJSON(t Translator, data []byte, opts Options) (*entry.Entry, error) {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name(), err)
	}
	return t.Translate(doc, opts)
}

// Registry maps provider names to translators.
type Registry struct {
	mu          sync.RWMutex
	translators map[string]Translator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{translators: make(map[string]Translator)}
}

// Register adds t under its name, replacing any previous translator.
func (r *Registry) Register(t Translator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.translators[strings.ToLower(t.Name())] = t
}

// Get looks up a translator by provider name.
func (r *Registry) Get(name string) (Translator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.translators[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return t, nil
}

// Names returns the registered provider names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.translators))
	for name := range r.translators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the registry holding every built-in translator.
var Default = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	r.Register(BibJSON{})
	r.Register(Springer{})
	r.Register(CSL{})
	r.Register(Paperpile{})
	return r
})
