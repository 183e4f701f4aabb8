package layout

// Tidy tree placement after Buchheim, Jünger and Leipert, "Improving Walker's
// Algorithm to Run in Linear Time". The walk mirrors the d3-hierarchy tree
// layout: siblings are one unit apart, cousins two, and the result is scaled
// into a breadth x depth box.

type walker struct {
	node     *Node
	parent   *walker
	children []*walker

	ancestor *walker // A: default ancestor while apportioning
	a        *walker // a: greatest distinct ancestor
	t        *walker // thread
	z        float64 // preliminary position
	m        float64 // modifier
	c        float64 // change
	s        float64 // shift
	i        int     // index among siblings
}

func newWalkTree(root *Node) *walker {
	var build func(n *Node, i int) *walker
	build = func(n *Node, i int) *walker {
		w := &walker{node: n, i: i}
		w.a = w
		for ci, c := range n.Children {
			child := build(c, ci)
			child.parent = w
			w.children = append(w.children, child)
		}
		return w
	}
	t := build(root, 0)
	sentinel := &walker{children: []*walker{t}}
	sentinel.a = sentinel
	t.parent = sentinel
	return t
}

func separation(a, b *walker) float64 {
	if a.parent == b.parent {
		return 1
	}
	return 2
}

// tidy sets breadth and depthPos of every node inside a box of breadth dx and
// depth dy. Depth positions are scaled uniformly; Engine replaces them with
// label-aware level offsets.
func tidy(root *Node, dx, dy float64) {
	t := newWalkTree(root)

	eachAfter(t, firstWalk)
	t.parent.m = -t.z
	eachBefore(t, secondWalk)

	left, right, bottom := root, root, root
	root.each(func(n *Node) {
		if n.breadth < left.breadth {
			left = n
		}
		if n.breadth > right.breadth {
			right = n
		}
		if n.Depth > bottom.Depth {
			bottom = n
		}
	})

	s := 1.0
	if left != right {
		if left.Parent == right.Parent {
			s = 0.5
		} else {
			s = 1
		}
	}
	tx := s - left.breadth
	kx := dx / (right.breadth + s + tx)
	depth := float64(bottom.Depth)
	if depth == 0 {
		depth = 1
	}
	ky := dy / depth

	root.each(func(n *Node) {
		n.breadth = (n.breadth + tx) * kx
		n.depthPos = float64(n.Depth) * ky
	})
}

func firstWalk(v *walker) {
	siblings := v.parent.children
	var w *walker
	if v.i > 0 {
		w = siblings[v.i-1]
	}
	if len(v.children) > 0 {
		executeShifts(v)
		midpoint := (v.children[0].z + v.children[len(v.children)-1].z) / 2
		if w != nil {
			v.z = w.z + separation(v, w)
			v.m = v.z - midpoint
		} else {
			v.z = midpoint
		}
	} else if w != nil {
		v.z = w.z + separation(v, w)
	}
	anc := v.parent.ancestor
	if anc == nil {
		anc = siblings[0]
	}
	v.parent.ancestor = apportion(v, w, anc)
}

func secondWalk(v *walker) {
	v.node.breadth = v.z + v.parent.m
	v.m += v.parent.m
}

func apportion(v, w, ancestor *walker) *walker {
	if w == nil {
		return ancestor
	}
	vip, vop := v, v
	vim := w
	vom := v.parent.children[0]
	sip, sop := vip.m, vop.m
	sim, som := vim.m, vom.m
	for {
		vim = nextRight(vim)
		vip = nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.a = v
		shift := vim.z + sim - vip.z - sip + separation(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.m
		sip += vip.m
		som += vom.m
		sop += vop.m
	}
	if vim != nil && nextRight(vop) == nil {
		vop.t = vim
		vop.m += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.t = vip
		vom.m += sip - som
		ancestor = v
	}
	return ancestor
}

func nextLeft(v *walker) *walker {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.t
}

func nextRight(v *walker) *walker {
	if len(v.children) > 0 {
		return v.children[len(v.children)-1]
	}
	return v.t
}

func moveSubtree(wm, wp *walker, shift float64) {
	change := shift / float64(wp.i-wm.i)
	wp.c -= change
	wp.s += shift
	wm.c += change
	wp.z += shift
	wp.m += shift
}

func executeShifts(v *walker) {
	var shift, change float64
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.z += shift
		w.m += shift
		change += w.c
		shift += w.s + change
	}
}

func nextAncestor(vim, v, ancestor *walker) *walker {
	if vim.a.parent == v.parent {
		return vim.a
	}
	return ancestor
}

func eachAfter(w *walker, fn func(*walker)) {
	for _, c := range w.children {
		eachAfter(c, fn)
	}
	fn(w)
}

func eachBefore(w *walker, fn func(*walker)) {
	fn(w)
	for _, c := range w.children {
		eachBefore(c, fn)
	}
}
