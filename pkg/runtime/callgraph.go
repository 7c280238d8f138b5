package runtime

import (
	"fmt"
	"strings"
)

// GlobalScope is the root scope of the call graph.
const GlobalScope = "global"

// QualifiedName builds the graph key for a function: bare in global scope,
// `scope::name` elsewhere.
func QualifiedName(scope, name string) string {
	if scope == "" || scope == GlobalScope {
		return name
	}
	return scope + "::" + name
}

type graphNode struct {
	id        int
	qualified string
	bare      string
	scope     string
	fn        Value
	edges     []int
}

// CallGraph is the graph-based registry that resolves a function name to its
// value, replacing flat symbol-table lookup. Nodes live in an arena indexed
// by integer id with a name-to-id map for O(1) resolution both directions;
// all functions registered in one scope are fully pairwise connected.
type CallGraph struct {
	nodes      []*graphNode
	index      map[string]int
	scopeNodes map[string][]int
	scopeStack []string
}

func NewCallGraph() *CallGraph {
	return &CallGraph{
		index:      make(map[string]int),
		scopeNodes: make(map[string][]int),
		scopeStack: []string{GlobalScope},
	}
}

// Reset clears every node and returns to global scope. Only an interpreter
// reset calls this; the graph is never pruned during a run.
func (g *CallGraph) Reset() {
	g.nodes = nil
	g.index = make(map[string]int)
	g.scopeNodes = make(map[string][]int)
	g.scopeStack = []string{GlobalScope}
}

func (g *CallGraph) CurrentScope() string {
	return g.scopeStack[len(g.scopeStack)-1]
}

// EnterScope switches the current scope for subsequent declarations.
func (g *CallGraph) EnterScope(name string) {
	g.scopeStack = append(g.scopeStack, name)
}

// ExitScope pops the current scope; the global scope is never popped.
func (g *CallGraph) ExitScope() {
	if len(g.scopeStack) > 1 {
		g.scopeStack = g.scopeStack[:len(g.scopeStack)-1]
	}
}

// Len reports the number of registered functions.
func (g *CallGraph) Len() int { return len(g.nodes) }

// AddFunction registers a function under the given scope and connects it
// bidirectionally to every other function already registered there.
// Redeclaring a name replaces the stored value but keeps the node's edges.
func (g *CallGraph) AddFunction(name string, fn Value, scope string) {
	if scope == "" {
		scope = g.CurrentScope()
	}
	qualified := QualifiedName(scope, name)
	if id, ok := g.index[qualified]; ok {
		g.nodes[id].fn = fn
		return
	}
	node := &graphNode{
		id:        len(g.nodes),
		qualified: qualified,
		bare:      name,
		scope:     scope,
		fn:        fn,
	}
	for _, peerID := range g.scopeNodes[scope] {
		peer := g.nodes[peerID]
		peer.edges = append(peer.edges, node.id)
		node.edges = append(node.edges, peerID)
	}
	g.nodes = append(g.nodes, node)
	g.index[qualified] = node.id
	g.scopeNodes[scope] = append(g.scopeNodes[scope], node.id)
}

// FindFunction resolves a name from the given scope: first the qualified
// name, then any function connected within the scope whose bare name
// matches, then the same two steps against global. The first hit wins.
func (g *CallGraph) FindFunction(name, currentScope string) (Value, bool) {
	if currentScope == "" {
		currentScope = g.CurrentScope()
	}
	if fn, ok := g.findInScope(name, currentScope); ok {
		return fn, true
	}
	if currentScope != GlobalScope {
		return g.findInScope(name, GlobalScope)
	}
	return nil, false
}

func (g *CallGraph) findInScope(name, scope string) (Value, bool) {
	if id, ok := g.index[QualifiedName(scope, name)]; ok {
		return g.nodes[id].fn, true
	}
	for _, id := range g.scopeNodes[scope] {
		if g.nodes[id].bare == name {
			return g.nodes[id].fn, true
		}
	}
	return nil, false
}

// NamedFunction pairs a bare name with its function value for batch
// registration.
type NamedFunction struct {
	Name string
	Fn   Value
}

// ConnectModuleFunctions atomically registers a batch of functions under one
// scope, temporarily switching the current scope for the duration.
func (g *CallGraph) ConnectModuleFunctions(moduleName string, functions []NamedFunction) {
	saved := g.scopeStack
	g.scopeStack = append(append([]string(nil), saved...), moduleName)
	for _, entry := range functions {
		g.AddFunction(entry.Name, entry.Fn, moduleName)
	}
	g.scopeStack = saved
}

//-----------------------------------------------------------------------------
// Subgraphs
//-----------------------------------------------------------------------------

// Subgraph is a temporary extraction of the function declarations found in
// one file, built before any of its statements execute and merged into the
// permanent graph when the file finishes loading.
type Subgraph struct {
	scopes  []string
	byScope map[string][]NamedFunction
}

func NewSubgraph() *Subgraph {
	return &Subgraph{byScope: make(map[string][]NamedFunction)}
}

func (s *Subgraph) Add(scope, name string, fn Value) {
	if scope == "" {
		scope = GlobalScope
	}
	if _, ok := s.byScope[scope]; !ok {
		s.scopes = append(s.scopes, scope)
	}
	s.byScope[scope] = append(s.byScope[scope], NamedFunction{Name: name, Fn: fn})
}

// Functions returns every function in the subgraph, scope batches in
// first-seen order.
func (s *Subgraph) Functions() []NamedFunction {
	out := make([]NamedFunction, 0, s.Len())
	for _, scope := range s.scopes {
		out = append(out, s.byScope[scope]...)
	}
	return out
}

func (s *Subgraph) Len() int {
	total := 0
	for _, fns := range s.byScope {
		total += len(fns)
	}
	return total
}

// Merge installs the subgraph into the permanent graph, one scope batch at a
// time in first-seen order.
func (s *Subgraph) Merge(g *CallGraph) {
	for _, scope := range s.scopes {
		if scope == GlobalScope {
			for _, entry := range s.byScope[scope] {
				g.AddFunction(entry.Name, entry.Fn, GlobalScope)
			}
			continue
		}
		g.ConnectModuleFunctions(scope, s.byScope[scope])
	}
}

//-----------------------------------------------------------------------------
// Tooling surface
//-----------------------------------------------------------------------------

// FindPath runs a breadth-first search over the connectivity edges between
// two qualified names. Used by tooling; never on the call path.
func (g *CallGraph) FindPath(from, to string) ([]string, bool) {
	start, okFrom := g.index[from]
	goal, okTo := g.index[to]
	if !okFrom || !okTo {
		return nil, false
	}
	if start == goal {
		return []string{from}, true
	}
	parent := map[int]int{start: -1}
	queue := []int{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.nodes[current].edges {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current
			if next == goal {
				var path []string
				for at := next; at != -1; at = parent[at] {
					path = append([]string{g.nodes[at].qualified}, path...)
				}
				return path, true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

// Dump renders a readable listing of nodes and their neighbours.
func (g *CallGraph) Dump() string {
	var b strings.Builder
	for _, node := range g.nodes {
		fmt.Fprintf(&b, "%s (scope=%s)", node.qualified, node.scope)
		if len(node.edges) > 0 {
			names := make([]string, len(node.edges))
			for i, id := range node.edges {
				names[i] = g.nodes[id].qualified
			}
			fmt.Fprintf(&b, " -> %s", strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DOT renders the graph in Graphviz format.
func (g *CallGraph) DOT() string {
	var b strings.Builder
	b.WriteString("graph callgraph {\n")
	for _, node := range g.nodes {
		fmt.Fprintf(&b, "  %q;\n", node.qualified)
	}
	for _, node := range g.nodes {
		for _, id := range node.edges {
			if id > node.id {
				fmt.Fprintf(&b, "  %q -- %q;\n", node.qualified, g.nodes[id].qualified)
			}
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// Mermaid renders the graph as a Mermaid diagram.
func (g *CallGraph) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, node := range g.nodes {
		fmt.Fprintf(&b, "  n%d[%s]\n", node.id, node.qualified)
	}
	for _, node := range g.nodes {
		for _, id := range node.edges {
			if id > node.id {
				fmt.Fprintf(&b, "  n%d --- n%d\n", node.id, id)
			}
		}
	}
	return b.String()
}
