package schema

// CoreStrainTable represents the 'core.strain' table
type CoreStrainTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Type        string
	Description string
	Flavor      string
	Comments    string
	CreatedAt   string
	UpdatedAt   string
}

// CoreStrain is the schema definition for core.strain
var CoreStrain = CoreStrainTable{
	Table:       "core.strain",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Type:        "type",
	Description: "description",
	Flavor:      "flavor",
	Comments:    "comments",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
