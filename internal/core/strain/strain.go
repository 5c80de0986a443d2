// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package strain implements the strain catalogue: the records users browse,
comment on and keep in their personal collection.

Reads are public. Every mutation requires a bearer token and invalidates the
cached catalogue.
*/
package strain

import "time"

// Strain is a catalogue entry.
type Strain struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Flavor      string    `json:"flavor"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Comment is a note left on a strain. It is stored inside the strain row.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// JSON field names reported in validation details.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldType        = "type"
	FieldDescription = "description"
	FieldFlavor      = "flavor"
	FieldComment     = "comment"
	FieldContent     = "content"
	FieldAuthor      = "author"
)

// Length limits for user-supplied text.
const (
	MaxNameLength        = 100
	MaxTypeLength        = 50
	MaxDescriptionLength = 2000
	MaxFlavorLength      = 200
	MaxCommentLength     = 1000
	MaxAuthorLength      = 100
)
