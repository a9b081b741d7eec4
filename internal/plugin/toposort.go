package plugin

import (
	"fmt"
	"sort"
)

// topologicalSort orders the plugins of one stage using Kahn's algorithm.
// Ties are broken by name so the order is deterministic.
func topologicalSort(plugins []Plugin) ([]Plugin, error) {
	if len(plugins) == 0 {
		return []Plugin{}, nil
	}

	byName := make(map[string]Plugin, len(plugins))
	for _, p := range plugins {
		name := p.Metadata().Name
		if _, exists := byName[name]; exists {
			return nil, fmt.Errorf("duplicate plugin name: %q", name)
		}
		byName[name] = p
	}

	graph := make(map[string][]string, len(plugins))
	inDegree := make(map[string]int, len(plugins))
	for name := range byName {
		graph[name] = nil
		inDegree[name] = 0
	}

	for _, p := range plugins {
		meta := p.Metadata()
		// dep -> current: current must run after dep.
		for _, dep := range meta.Dependencies.MustRunAfter {
			if _, exists := byName[dep]; exists {
				graph[dep] = append(graph[dep], meta.Name)
				inDegree[meta.Name]++
			}
		}
		// current -> after: current must run before after.
		for _, after := range meta.Dependencies.MustRunBefore {
			if _, exists := byName[after]; exists {
				graph[meta.Name] = append(graph[meta.Name], after)
				inDegree[after]++
			}
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	result := make([]Plugin, 0, len(plugins))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, byName[current])

		neighbors := graph[current]
		sort.Strings(neighbors)
		for _, neighbor := range neighbors {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(plugins) {
		var cyclic []string
		for name, degree := range inDegree {
			if degree > 0 {
				cyclic = append(cyclic, name)
			}
		}
		sort.Strings(cyclic)
		return nil, fmt.Errorf("circular dependency detected involving plugins: %v", cyclic)
	}

	return result, nil
}

// Order validates the plugins and returns them grouped by stage (in
// StageOrder) and sorted by dependencies within each stage.
func Order(plugins []Plugin) ([]Plugin, error) {
	byStage := make(map[Stage][]Plugin)
	for _, p := range plugins {
		if p == nil {
			return nil, fmt.Errorf("nil plugin")
		}
		meta := p.Metadata()
		if err := meta.Validate(); err != nil {
			return nil, err
		}
		if !implementsStage(p) {
			return nil, fmt.Errorf("plugin %q does not implement the %s stage interface", meta.Name, meta.Stage)
		}
		byStage[meta.Stage] = append(byStage[meta.Stage], p)
	}

	seen := make(map[string]Stage, len(plugins))
	for _, p := range plugins {
		meta := p.Metadata()
		if stage, dup := seen[meta.Name]; dup {
			return nil, fmt.Errorf("duplicate plugin name: %q (stages %s and %s)", meta.Name, stage, meta.Stage)
		}
		seen[meta.Name] = meta.Stage
	}

	result := make([]Plugin, 0, len(plugins))
	for _, stage := range StageOrder {
		sorted, err := topologicalSort(byStage[stage])
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage, err)
		}
		result = append(result, sorted...)
	}
	return result, nil
}
