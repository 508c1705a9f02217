package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/resiembra/resiembra/internal/common"
	"github.com/resiembra/resiembra/internal/filex"
	"github.com/resiembra/resiembra/internal/models"
	"github.com/resiembra/resiembra/internal/sower/services"
)

// parseLocation accepts "lat lng" or "lat lng acc". An empty answer means no
// GPS fix.
func parseLocation(text string) (*models.Location, error) {
	if text == "" {
		return nil, nil
	}
	fields := strings.Fields(text)
	if len(fields) != 2 && len(fields) != 3 {
		return nil, errors.New("expected 'lat lng' or 'lat lng acc'")
	}

	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("not a coordinate: %q", f)
		}
		vals[i] = v
	}

	loc := &models.Location{Lat: vals[0], Lng: vals[1]}
	if len(vals) == 3 {
		loc.Acc = vals[2]
	}
	return loc, nil
}

// Sow interactively collects one planting event and records it. When the
// blob store is unreachable the photo write is queued and the user is told
// it will sync on reconnect.
func (a *App) Sow(ctx context.Context) error {
	in := &services.SowingInput{}
	var err error

	if in.SpeciesID, err = GetSimpleText(a.reader, "Species ID", os.Stdout); err != nil {
		return err
	}
	if in.CampaignID, err = GetSimpleText(a.reader, "Campaign ID (empty if none)", os.Stdout); err != nil {
		return err
	}
	if in.TeamID, err = GetSimpleText(a.reader, "Team ID (empty if none)", os.Stdout); err != nil {
		return err
	}

	locText, err := GetSimpleText(a.reader, "Location 'lat lng acc' (empty if GPS never resolved)", os.Stdout)
	if err != nil {
		return err
	}
	if in.Location, err = parseLocation(locText); err != nil {
		fmt.Println("Error:", err)
		return err
	}

	if in.HoleCount, err = GetInt(a.reader, "Holes", 1, os.Stdout); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if in.SeedsPerHole, err = GetInt(a.reader, "Seeds per hole", 1, os.Stdout); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if in.Notes, err = GetSimpleText(a.reader, "Notes (optional)", os.Stdout); err != nil {
		return err
	}

	photoPath, err := GetSimpleText(a.reader, "Photo file path (empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	if photoPath != "" {
		if in.Photo, err = filex.ReadImageBase64(photoPath); err != nil {
			fmt.Println("Error:", err)
			return err
		}
	}

	rec, err := a.sowing.Record(ctx, in)
	if err != nil {
		if errors.Is(err, common.ErrOffline) {
			fmt.Println("Remote store unreachable, try again once back online.")
		} else {
			fmt.Println("Error:", err)
		}
		return err
	}

	if rec.Synced {
		fmt.Println("Recorded", rec.ID)
	} else {
		fmt.Println("Recorded", rec.ID, "(photo queued, will sync on reconnect)")
	}
	return nil
}
