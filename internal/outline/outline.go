// Package outline holds the typed tree produced from an LLM's textual
// outline and the parser that builds it.
package outline

// BulletPrefix marks a bullet line in the outline text protocol.
const BulletPrefix = "|-- "

// Node is one entry of an outline tree. It is implemented only by
// *MainSection, *Subsection and *Bullet.
type Node interface {
	node()
}

// MainSection is a top-level numbered section ("1. Title").
type MainSection struct {
	Marker   string
	Title    string
	Children []Node
}

// Subsection is a lettered section nested under a MainSection ("1.a Title").
// Indent is the leading-space count of its source line.
type Subsection struct {
	Marker   string
	Title    string
	Children []Node
	Indent   int
}

// Bullet is a leaf point. Level starts at 1 directly under its parent.
type Bullet struct {
	Text  string
	Level int
}

func (*MainSection) node() {}
func (*Subsection) node()  {}
func (*Bullet) node()      {}

// Counts summarizes the shape of a parsed outline.
type Counts struct {
	Sections    int `json:"sections"`
	Subsections int `json:"subsections"`
	Bullets     int `json:"bullets"`
	MaxDepth    int `json:"max_depth"`
}

// Stats walks the tree and counts each node kind. MaxDepth counts the main
// section as depth 1.
func Stats(roots []*MainSection) Counts {
	var c Counts
	for _, root := range roots {
		c.Sections++
		countChildren(root.Children, 2, &c)
		if c.MaxDepth < 1 {
			c.MaxDepth = 1
		}
	}
	return c
}

func countChildren(children []Node, depth int, c *Counts) {
	for _, child := range children {
		if depth > c.MaxDepth {
			c.MaxDepth = depth
		}
		switch n := child.(type) {
		case *Subsection:
			c.Subsections++
			countChildren(n.Children, depth+1, c)
		case *Bullet:
			c.Bullets++
		}
	}
}
