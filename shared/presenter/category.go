package presenter

// Icon names a category glyph.
type Icon string

const (
	IconTarget Icon = "target"
	IconZap    Icon = "zap"
	IconBrain  Icon = "brain"
	IconPlay   Icon = "play"
)

// Glyph is the terminal rendering of an icon.
func (i Icon) Glyph() string {
	switch i {
	case IconZap:
		return "⚡"
	case IconBrain:
		return "🧠"
	case IconPlay:
		return "▶"
	}
	return "🎯"
}

// Known category names produced by the analysis service.
const (
	CategoryClarity       = "Clarity of Content"
	CategoryCommercial    = "Commercial Balance"
	CategoryDepth         = "Content Depth"
	CategoryInteraction   = "Student Interaction"
	CategoryStructure     = "Content Structure"
	CategoryCommunication = "Communication Effectiveness"
)

// Descriptor holds the display capabilities of a category.
type Descriptor struct {
	Name  string
	Icon  Icon
	Known bool
}

var knownCategories = map[string]Icon{
	CategoryClarity:       IconTarget,
	CategoryCommercial:    IconZap,
	CategoryDepth:         IconBrain,
	CategoryInteraction:   IconPlay,
	CategoryStructure:     IconTarget,
	CategoryCommunication: IconZap,
}

// DescribeCategory looks up name. Unknown categories get the target icon
// and Known=false.
func DescribeCategory(name string) Descriptor {
	icon, ok := knownCategories[name]
	if !ok {
		return Descriptor{Name: name, Icon: IconTarget}
	}
	return Descriptor{Name: name, Icon: icon, Known: true}
}

// KnownCategories lists the known names in display order.
func KnownCategories() []string {
	return []string{
		CategoryClarity,
		CategoryCommercial,
		CategoryDepth,
		CategoryInteraction,
		CategoryStructure,
		CategoryCommunication,
	}
}
