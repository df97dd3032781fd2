// Package model defines the data structures shared by repodeck's packages.
//
// # Repository
//
// [Repository] is the record shown to the user. Records come from the remote
// API or from the local draft list; a nil Owner marks a draft:
//
//	type Repository struct {
//	    Name        string  // Unique within the account
//	    Description *string // nil when absent
//	    ImageURL    *string // Owner avatar
//	    Owner       *string // Owner login, nil for drafts
//	    Language    *string
//	    Stars       int
//	}
//
// # UserProfile
//
// [UserProfile] is the authenticated account. [UnknownProfile] builds the
// placeholder returned when the profile cannot be fetched.
package model
