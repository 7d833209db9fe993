// Package server exposes a runtime to editors over the Language Server
// Protocol. All runtime access is confined to one Worker goroutine.
package server

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/reader"
	"github.com/shawwn/ylang/runtime"
	"github.com/shawwn/ylang/symbol"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "ylang-lsp"

var log = commonlog.GetLogger("ylang.server")

// LspServer answers completion, hover and reference queries from the
// runtime's obarray and registry, and reports reader errors as diagnostics.
type LspServer struct {
	worker *Worker

	mu   sync.Mutex
	docs map[string]string // URI → full document content

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates a new LSP server wrapping the given runtime.
func NewLSP(rt *runtime.Runtime) *LspServer {
	s := &LspServer{
		worker:  NewWorker(rt),
		docs:    make(map[string]string),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
		TextDocumentReferences: s.textDocumentReferences,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("ylang LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"(", ":"},
	}

	capabilities.HoverProvider = true
	capabilities.ReferencesProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	s.worker.Stop()
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	s.mu.Lock()
	s.docs[string(uri)] = text
	s.mu.Unlock()

	s.publishDiagnostics(ctx, uri, text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.mu.Lock()
			s.docs[string(uri)] = whole.Text
			s.mu.Unlock()

			s.publishDiagnostics(ctx, uri, whole.Text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *LspServer) document(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[string(uri)]
	return text, ok
}

// --- Language features ---

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	prefix := extractPrefix(text, params.Position)
	if prefix == "" {
		return nil, nil
	}

	return s.worker.Do(func(rt *runtime.Runtime) (any, error) {
		return s.complete(rt, prefix), nil
	})
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	word := extractWord(text, params.Position)
	if word == "" {
		return nil, nil
	}

	result, err := s.worker.Do(func(rt *runtime.Runtime) (any, error) {
		return s.hover(rt, word), nil
	})
	if err != nil {
		return nil, nil
	}
	hover, _ := result.(*protocol.Hover)
	return hover, nil
}

func (s *LspServer) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	word := extractWord(text, params.Position)
	if word == "" {
		return nil, nil
	}
	return s.references(word), nil
}

// --- Runtime-backed logic (called on worker goroutine) ---

func (s *LspServer) complete(rt *runtime.Runtime, prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	reg := rt.Registry()

	for _, sym := range rt.Table().All() {
		name := sym.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		kind := protocol.CompletionItemKindConstant
		detail := "symbol"
		if subr := reg.Subr(sym); subr != nil {
			kind = protocol.CompletionItemKindFunction
			detail = subr.Signature()
		} else if v, ok := reg.LookupValue(sym); ok {
			kind = protocol.CompletionItemKindVariable
			detail = "= " + lisp.Sprint(v)
		} else if sym.IsKeyword() {
			kind = protocol.CompletionItemKindKeyword
			detail = "keyword"
		}

		insert := sym.String()
		items = append(items, protocol.CompletionItem{
			Label:      name,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &insert,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })

	const maxItems = 100
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

func (s *LspServer) hover(rt *runtime.Runtime, word string) *protocol.Hover {
	sym, ok := rt.Table().Lookup(word)
	if !ok {
		return nil
	}
	reg := rt.Registry()

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", sym)
	if sym.IsSentinel() {
		b.WriteString(" (constant)")
	}
	b.WriteString("\n\n")

	subr := reg.Subr(sym)
	if subr != nil {
		fmt.Fprintf(&b, "Builtin `%s`", subr.Signature())
		if subr.Variadic() {
			b.WriteString(", variadic")
		}
		b.WriteString("\n\n")
	}
	if v, ok := reg.LookupValue(sym); ok {
		fmt.Fprintf(&b, "Value: `%s`\n\n", lisp.Sprint(v))
	} else if subr == nil {
		fmt.Fprintf(&b, "Interned symbol #%d, unbound\n\n", sym.ID())
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: strings.TrimRight(b.String(), "\n"),
		},
	}
}

// references finds symbol tokens spelled word across the open documents.
func (s *LspServer) references(word string) []protocol.Location {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	docs := make([]string, len(uris))
	for i, uri := range uris {
		docs[i] = s.docs[uri]
	}
	s.mu.Unlock()

	var locations []protocol.Location
	for i, text := range docs {
		for _, tok := range reader.Tokenize(text) {
			if tok.Type != reader.TokenSymbol || tok.Literal != word {
				continue
			}
			start := positionAt(text, tok.Pos.Line-1, tok.Pos.Offset)
			end := positionAt(text, tok.Pos.Line-1+strings.Count(text[tok.Pos.Offset:tok.End], "\n"), tok.End)
			locations = append(locations, protocol.Location{
				URI:   protocol.DocumentUri(uris[i]),
				Range: protocol.Range{Start: start, End: end},
			})
		}
	}
	return locations
}

// --- Diagnostics ---

// diagnose reads text into a scratch obarray so checking a document never
// interns into the runtime.
func diagnose(text string) []protocol.Diagnostic {
	_, err := reader.ReadAll(symbol.NewTable(), text)
	if err == nil {
		return nil
	}

	var pos protocol.Position
	msg := err.Error()
	var se *reader.SyntaxError
	if errors.As(err, &se) {
		pos = positionAt(text, max(se.Pos.Line-1, 0), se.Pos.Offset)
		msg = se.Msg
	}

	severity := protocol.DiagnosticSeverityError
	source := lspName
	return []protocol.Diagnostic{{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: &severity,
		Source:   &source,
		Message:  msg,
	}}
}

func (s *LspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diagnostics := diagnose(text)
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	log.Debugf("%s: %d diagnostics", uri, len(diagnostics))

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// --- Text extraction helpers ---

// isSymbolChar reports whether r can appear in a bare symbol. Bytes of
// multi-byte characters count as symbol characters.
func isSymbolChar(r rune) bool {
	if r >= utf8.RuneSelf {
		return true
	}
	switch r {
	case '(', ')', '[', ']', '"', ';', '|', '\'':
		return false
	}
	return !unicode.IsSpace(r)
}

func lineAt(text string, pos protocol.Position) (string, int, bool) {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return "", 0, false
	}
	line := lines[pos.Line]
	return line, byteOffset(line, int(pos.Character)), true
}

// byteOffset converts a UTF-16 column within line to a byte offset. LSP
// columns count UTF-16 code units.
func byteOffset(line string, char int) int {
	units := 0
	for i, r := range line {
		if units >= char {
			return i
		}
		units += utf16.RuneLen(r)
	}
	return len(line)
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// positionAt converts a byte offset on the given zero-based line of text to
// an LSP position.
func positionAt(text string, line, offset int) protocol.Position {
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(utf16Len(text[start:offset])),
	}
}

// extractPrefix returns the symbol fragment before the cursor for completion.
func extractPrefix(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}

	start := col
	for start > 0 && isSymbolChar(rune(line[start-1])) {
		start--
	}
	return line[start:col]
}

// extractWord returns the full symbol under the cursor.
func extractWord(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}

	start := col
	for start > 0 && isSymbolChar(rune(line[start-1])) {
		start--
	}
	end := col
	for end < len(line) && isSymbolChar(rune(line[end])) {
		end++
	}
	return line[start:end]
}

func boolPtr(b bool) *bool {
	return &b
}
