package datagen

// Datasets supplies the demographic reference lists the generator draws
// from. Implementations must return the same slices on every call so that
// seeded draws stay reproducible.
type Datasets interface {
	FamilyNames() []string
	GivenNames() []string
	Streets() []string
	Cities() []string
	States() []string
}

// embeddedDatasets is the zero-dependency fallback used when no dataset
// database is configured.
type embeddedDatasets struct{}

// Embedded returns the built-in demographic lists.
func Embedded() Datasets {
	return embeddedDatasets{}
}

func (embeddedDatasets) FamilyNames() []string { return embeddedFamilyNames }
func (embeddedDatasets) GivenNames() []string  { return embeddedGivenNames }
func (embeddedDatasets) Streets() []string     { return embeddedStreets }
func (embeddedDatasets) Cities() []string      { return embeddedCities }
func (embeddedDatasets) States() []string      { return embeddedStates }

var embeddedFamilyNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

var embeddedGivenNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael",
	"Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen",
}

var embeddedStreets = []string{
	"Main St", "Oak Ave", "Maple Dr", "Cedar Ln", "Park Rd", "Elm St",
	"Washington Blvd", "Lake View Dr", "Hillcrest Ave", "River Rd",
}

var embeddedCities = []string{
	"Springfield", "Riverside", "Franklin", "Greenville", "Bristol",
	"Clinton", "Fairview", "Salem", "Madison", "Georgetown",
}

var embeddedStates = []string{
	"IL", "CA", "TX", "NY", "FL", "OH", "PA", "MI", "GA", "NC",
}
