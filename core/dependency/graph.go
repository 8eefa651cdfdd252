package dependency

import (
	"sort"
	"sync"
)

// Node is one file in the graph. Both edge lists keep insertion order.
type Node struct {
	FilePath     string
	Dependencies []string
	Dependents   []string
}

// Graph holds imports/imported-by edges between resolved files.
type Graph struct {
	nodes map[string]*Node
	mutex sync.RWMutex
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddNode registers path without any edges.
func (g *Graph) AddNode(path string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.ensureNode(path)
}

// AddEdge records that from imports to. Repeated edges are ignored and false
// is returned.
func (g *Graph) AddEdge(from, to string) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	node := g.ensureNode(from)
	for _, existing := range node.Dependencies {
		if existing == to {
			return false
		}
	}
	node.Dependencies = append(node.Dependencies, to)

	target := g.ensureNode(to)
	target.Dependents = append(target.Dependents, from)
	return true
}

// Importers returns every file that reaches path through one or more edges,
// sorted and excluding path itself.
func (g *Graph) Importers(path string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	visited := map[string]bool{path: true}
	affected := []string{}
	stack := []string{path}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, exists := g.nodes[current]
		if !exists {
			continue
		}
		for _, dependent := range node.Dependents {
			if visited[dependent] {
				continue
			}
			visited[dependent] = true
			affected = append(affected, dependent)
			stack = append(stack, dependent)
		}
	}

	sort.Strings(affected)
	return affected
}

// Reachable lists entry and everything it imports, in depth-first preorder.
func (g *Graph) Reachable(entry string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if _, exists := g.nodes[entry]; !exists {
		return []string{}
	}

	visited := map[string]bool{}
	order := []string{}
	stack := []string{entry}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		order = append(order, current)

		deps := g.nodes[current].Dependencies
		for i := len(deps) - 1; i >= 0; i-- {
			if !visited[deps[i]] {
				stack = append(stack, deps[i])
			}
		}
	}
	return order
}

func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

func (g *Graph) Clear() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.nodes = make(map[string]*Node)
}

// ensureNode is not thread-safe, caller must lock.
func (g *Graph) ensureNode(path string) *Node {
	node, exists := g.nodes[path]
	if !exists {
		node = &Node{FilePath: path}
		g.nodes[path] = node
	}
	return node
}

// cycleFrom cuts trail at the first occurrence of target and closes the loop.
func cycleFrom(trail []string, target string) []string {
	for i, p := range trail {
		if p == target {
			cycle := make([]string, 0, len(trail)-i+1)
			cycle = append(cycle, trail[i:]...)
			return append(cycle, target)
		}
	}
	return nil
}
