package cmd

import (
	"github.com/inovacc/repodeck/internal/model"
	"github.com/spf13/cobra"
)

// newCreateRequest builds a create request from the command's flags. An
// empty description is sent as absent.
func newCreateRequest(cmd *cobra.Command, name string) model.CreateRequest {
	req := model.CreateRequest{Name: name}

	if d := optionalString(cmd.Flags(), "description"); d != nil {
		req.Description = model.StringPtr(*d)
	}

	req.Private = optionalBool(cmd.Flags(), "private")

	return req
}

// newEditRequest builds a partial update holding only the flags that were
// set.
func newEditRequest(cmd *cobra.Command) model.EditRequest {
	return model.EditRequest{
		Name:        optionalString(cmd.Flags(), "name"),
		Description: optionalString(cmd.Flags(), "description"),
		Private:     optionalBool(cmd.Flags(), "private"),
	}
}
