package classifier

import "fmt"

// node is either a split or a leaf. Splits send x[Feature] <= Threshold
// to Left and everything else to Right. Leaf values are the probability
// of class 1.
type node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

type tree struct {
	Nodes []node `json:"nodes"`
}

// TreeEnsemble averages the leaf scores of its trees.
// A single decision tree is an ensemble of one.
type TreeEnsemble struct {
	features  []string
	trees     []tree
	threshold float64
}

func newTreeEnsemble(features []string, trees []tree, threshold float64) (*TreeEnsemble, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: tree ensemble has no trees", ErrMalformed)
	}
	for i, t := range trees {
		if err := t.validate(len(features)); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", ErrMalformed, i, err)
		}
	}
	return &TreeEnsemble{
		features:  copyStrings(features),
		trees:     trees,
		threshold: threshold,
	}, nil
}

// validate checks node references and makes sure every path from the
// root ends in a leaf without revisiting a node
func (t tree) validate(width int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}

	visited := make([]bool, len(t.Nodes))
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[idx] {
			return fmt.Errorf("node %d is reachable twice", idx)
		}
		visited[idx] = true

		n := t.Nodes[idx]
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return fmt.Errorf("node %d splits on feature %d, schema has %d", idx, n.Feature, width)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= 0 || child >= len(t.Nodes) {
				return fmt.Errorf("node %d has child %d out of range", idx, child)
			}
			stack = append(stack, child)
		}
	}
	return nil
}

func (t tree) score(x []float64) float64 {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

// Score returns the mean class-1 probability across all trees
func (m *TreeEnsemble) Score(features []float64) (float64, error) {
	if err := checkWidth(m.features, features); err != nil {
		return 0, err
	}
	total := 0.0
	for _, t := range m.trees {
		total += t.score(features)
	}
	return total / float64(len(m.trees)), nil
}

// Predict implements Classifier
func (m *TreeEnsemble) Predict(features []float64) (int, error) {
	score, err := m.Score(features)
	if err != nil {
		return 0, err
	}
	if score >= m.threshold {
		return 1, nil
	}
	return 0, nil
}

// Features implements Classifier
func (m *TreeEnsemble) Features() []string {
	return copyStrings(m.features)
}

// Kind implements Classifier
func (m *TreeEnsemble) Kind() string {
	return KindTreeEnsemble
}
