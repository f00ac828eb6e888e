package formatters

import (
	"fmt"
	"strings"
)

// hierarchyNode is one box in a hierarchy diagram: the implementation, the root or a parent.
type hierarchyNode struct {
	name       string
	label      string
	generated  bool
	unresolved bool
}

// hierarchyEdge points from a subtype to the type it extends or implements.
type hierarchyEdge struct {
	from, to   int
	implements bool
}

// hierarchy lays out the implementation, the root and the root's declared parents. Nodes are
// numbered in report order so output is deterministic.
func hierarchy(r Report) ([]hierarchyNode, []hierarchyEdge) {
	nodes := []hierarchyNode{
		{name: r.Implementation, label: r.Implementation, generated: true},
		{name: r.Type, label: r.Type + "\n" + r.Kind},
	}
	edges := []hierarchyEdge{{from: 0, to: 1, implements: r.Kind == "interface"}}

	index := map[string]int{r.Implementation: 0, r.Type: 1}
	for _, p := range r.Parents {
		i, ok := index[p.Type]
		if !ok {
			i = len(nodes)
			index[p.Type] = i
			nodes = append(nodes, hierarchyNode{name: p.Type, label: p.Type, unresolved: !p.Resolved})
		}
		edges = append(edges, hierarchyEdge{from: 1, to: i, implements: p.Kind == "implements"})
	}
	return nodes, edges
}

type dotFormatter struct{}

func (dotFormatter) Format(r Report) (string, error) {
	nodes, edges := hierarchy(r)

	var sb strings.Builder
	sb.WriteString("digraph hierarchy {\n")
	sb.WriteString("  rankdir=BT;\n")
	sb.WriteString("  node [shape=box];\n")
	sb.WriteString("\n")

	for _, n := range nodes {
		var attrs []string
		if n.label != n.name {
			attrs = append(attrs, fmt.Sprintf("label=%s", dotQuote(n.label)))
		}
		if n.generated {
			attrs = append(attrs, "style=filled", "fillcolor=lightyellow")
		}
		if n.unresolved {
			attrs = append(attrs, "color=gray", "fontcolor=gray")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&sb, "  %s;\n", dotQuote(n.name))
			continue
		}
		fmt.Fprintf(&sb, "  %s [%s];\n", dotQuote(n.name), strings.Join(attrs, ", "))
	}

	sb.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&sb, "  %s -> %s", dotQuote(nodes[e.from].name), dotQuote(nodes[e.to].name))
		if e.implements {
			sb.WriteString(" [style=dashed]")
		}
		sb.WriteString(";\n")
	}
	sb.WriteString("}\n")

	return sb.String(), nil
}

func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}

type mermaidFormatter struct{}

func (mermaidFormatter) Format(r Report) (string, error) {
	nodes, edges := hierarchy(r)

	var sb strings.Builder
	sb.WriteString("flowchart BT\n")

	var unresolved []string
	for i, n := range nodes {
		label := strings.ReplaceAll(n.label, "\"", "#quot;")
		label = strings.ReplaceAll(label, "\n", "<br/>")
		fmt.Fprintf(&sb, "    n%d[\"%s\"]\n", i, label)
		if n.unresolved {
			unresolved = append(unresolved, fmt.Sprintf("n%d", i))
		}
	}

	for _, e := range edges {
		arrow := "-->"
		if e.implements {
			arrow = "-.->"
		}
		fmt.Fprintf(&sb, "    n%d %s n%d\n", e.from, arrow, e.to)
	}

	sb.WriteString("    classDef implementation fill:#fff8dc\n")
	sb.WriteString("    class n0 implementation\n")
	if len(unresolved) > 0 {
		sb.WriteString("    classDef unresolved stroke-dasharray:5 5,color:#888\n")
		fmt.Fprintf(&sb, "    class %s unresolved\n", strings.Join(unresolved, ","))
	}

	return sb.String(), nil
}
