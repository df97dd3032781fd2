package repos

import (
	"github.com/google/go-github/v82/github"
	"github.com/inovacc/repodeck/internal/model"
)

func fromGitHub(r *github.Repository) model.Repository {
	rec := model.Repository{
		Name:        r.GetName(),
		Description: model.StringPtr(r.GetDescription()),
		Language:    model.StringPtr(r.GetLanguage()),
		Stars:       r.GetStargazersCount(),
		Private:     r.GetPrivate(),
	}

	if owner := r.GetOwner(); owner != nil {
		rec.ImageURL = model.StringPtr(owner.GetAvatarURL())
		rec.Owner = model.StringPtr(owner.GetLogin())
	}

	return rec
}

func profileFromGitHub(u *github.User) model.UserProfile {
	return model.UserProfile{
		Login:       u.GetLogin(),
		Name:        model.StringPtr(u.GetName()),
		Bio:         model.StringPtr(u.GetBio()),
		AvatarURL:   model.StringPtr(u.GetAvatarURL()),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		PublicRepos: u.GetPublicRepos(),
		Location:    model.StringPtr(u.GetLocation()),
	}
}
