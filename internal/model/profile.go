package model

// UnknownValue is the literal placed in every text field of the sentinel
// profile.
const UnknownValue = "undefined"

// PlaceholderAvatarURL is the avatar shown when the profile could not be
// fetched.
const PlaceholderAvatarURL = "https://github.githubassets.com/images/modules/logos_page/GitHub-Mark.png"

// UserProfile is a read-only snapshot of the authenticated account.
type UserProfile struct {
	Login       string  `json:"login"`
	Name        *string `json:"name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	PublicRepos int     `json:"public_repos"`
	Location    *string `json:"location"`
}

// UnknownProfile returns the sentinel profile used when the real one cannot be
// fetched.
func UnknownProfile() UserProfile {
	name := UnknownValue
	bio := UnknownValue
	avatar := PlaceholderAvatarURL

	return UserProfile{
		Login:     UnknownValue,
		Name:      &name,
		Bio:       &bio,
		AvatarURL: &avatar,
	}
}

// IsUnknown reports whether p is the sentinel returned by UnknownProfile.
func (p UserProfile) IsUnknown() bool {
	return p.Login == UnknownValue &&
		StringValue(p.Name) == UnknownValue &&
		StringValue(p.AvatarURL) == PlaceholderAvatarURL
}
