package cli

import (
	"context"
	"fmt"
	"log"
)

// Users fetches and prints all user profiles.
func (a *App) Users(ctx context.Context) error {
	profiles, err := a.api.ListUsers(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	for _, p := range profiles {
		printlnFn(fmt.Sprintf("%s: %s %s (%s)", p.Username, p.FirstName, p.LastName, p.Phone))
	}
	return nil
}
