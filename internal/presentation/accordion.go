package presentation

// Accordion tracks which section is expanded. At most one section is open;
// the zero value has every section closed.
type Accordion struct {
	open SectionID
}

// NewAccordion opens Foundations, the default for a freshly rendered plan.
func NewAccordion() Accordion {
	return Accordion{open: SectionFoundations}
}

// AccordionAt opens id, or nothing when id is empty.
func AccordionAt(id SectionID) Accordion {
	return Accordion{open: id}
}

// Open returns the expanded section, or "" when all are collapsed.
func (a Accordion) Open() SectionID {
	return a.open
}

func (a Accordion) IsOpen(id SectionID) bool {
	return a.open != "" && a.open == id
}

// Toggle collapses id when it is open and opens it otherwise.
func (a Accordion) Toggle(id SectionID) Accordion {
	if a.open == id {
		return Accordion{}
	}
	return Accordion{open: id}
}

// Target is the accordion state reached by clicking id.
// Renderers use it to build toggle links.
func (a Accordion) Target(id SectionID) SectionID {
	return a.Toggle(id).open
}
