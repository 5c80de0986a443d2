package schema

// UserCollectionTable represents the 'users.collection' table, the strains a user keeps.
type UserCollectionTable struct {
	Table    string
	UserID   string
	StrainID string
	AddedAt  string
}

// UserCollection is the schema definition for users.collection
var UserCollection = UserCollectionTable{
	Table:    "users.collection",
	UserID:   "userid",
	StrainID: "strainid",
	AddedAt:  "addedat",
}
