package cli

import (
	"context"
	"fmt"
)

// List prints the published listings, marking saved ones with a star.
func (a *App) List(ctx context.Context) error {
	props, err := a.properties.List(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load listings: %s\n", err)
		return err
	}

	for _, p := range props {
		marker := " "
		if a.favorites.IsFavorite(p.ID) {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %-12s %-30s ₹%d  %s\n", marker, p.ID, p.Title, p.Price, p.Location)
	}
	return nil
}

// Favorites prints the saved listings.
func (a *App) Favorites(ctx context.Context) error {
	favs := a.favorites.List()
	if len(favs) == 0 {
		fmt.Fprintln(a.out, "No saved listings yet. Use fav <id>.")
		return nil
	}
	for _, p := range favs {
		fmt.Fprintf(a.out, "%-12s %-30s ₹%d\n", p.ID, p.Title, p.Price)
	}
	return nil
}

// ToggleFavorite adds or removes a listing from the favorites by id. The
// listing summary comes from the local cache, so a listing must have been
// browsed at least once before it can be saved.
func (a *App) ToggleFavorite(ctx context.Context, id string) error {
	p, err := a.properties.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Unknown listing %q, run list first.\n", id)
		return err
	}

	if a.favorites.Toggle(ctx, *p) {
		fmt.Fprintf(a.out, "Saved %s.\n", p.Title)
	} else {
		fmt.Fprintf(a.out, "Removed %s.\n", p.Title)
	}
	return nil
}
