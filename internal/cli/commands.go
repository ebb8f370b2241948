package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/adventurelog/uploadsync/internal/filex"
	"github.com/adventurelog/uploadsync/internal/models"
)

// Login reads an access token without echo, verifies it and persists it for
// later sessions.
func (a *App) Login(ctx context.Context) error {
	token, err := GetToken(os.Stdout)
	if err != nil {
		return err
	}

	userID, err := a.session.Login(ctx, string(token))
	if err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	a.userID = userID
	fmt.Println("Logged in as", userID)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	a.userID = ""
	fmt.Println("Logged out")
	return nil
}

// Queue interactively stages a new album upload: album metadata first, then
// photo paths one by one until an empty line. The upload is queued durably
// and, when online, synced in the background.
func (a *App) Queue(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Album title", os.Stdout)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		return err
	}
	location, err := GetSimpleText(a.reader, "Location (optional)", os.Stdout)
	if err != nil {
		return err
	}

	var photos []models.StagedPhoto
	for {
		path, err := GetSimpleText(a.reader, "Photo path (empty line to finish)", os.Stdout)
		if err != nil {
			return err
		}
		if path == "" {
			break
		}

		data, mimeType, err := filex.ReadPhoto(path)
		if err != nil {
			fmt.Println("Skipping:", err)
			continue
		}
		caption, err := GetSimpleText(a.reader, "Caption (optional)", os.Stdout)
		if err != nil {
			return err
		}

		photos = append(photos, models.StagedPhoto{
			FileDescriptor: models.FileDescriptor{
				LocalPath:  path,
				MimeType:   mimeType,
				Size:       int64(len(data)),
				Caption:    caption,
				OrderIndex: len(photos),
			},
			Data: data,
		})
	}

	if len(photos) == 0 {
		fmt.Println("No photos staged, nothing queued")
		return nil
	}

	payload := models.AlbumPayload{
		Title:        title,
		Description:  description,
		LocationName: location,
		Visibility:   "private",
	}
	localID, err := a.engine.QueueAlbumUpload(ctx, payload, photos)
	if err != nil {
		fmt.Println("Queue failed:", err)
		return err
	}

	fmt.Printf("Queued %s (%d photos)\n", localID, len(photos))
	return nil
}

// List prints the user's full upload queue, including terminal rows.
func (a *App) List(ctx context.Context) error {
	items, err := a.engine.Snapshot(ctx)
	if err != nil {
		fmt.Println("List failed:", err)
		return err
	}

	if len(items) == 0 {
		fmt.Println("Queue is empty")
		return nil
	}

	for _, item := range items {
		fmt.Printf("%s  %-10s  %q (%d photos)", item.LocalID, item.Status, item.Payload.Title, len(item.Files))
		if item.Status == models.StatusFailed {
			fmt.Printf("  retries=%d error=%s", item.RetryCount, item.ErrorMessage)
		}
		if item.RemoteAlbumID != "" {
			fmt.Printf("  album=%s", item.RemoteAlbumID)
		}
		fmt.Println()
	}
	return nil
}

// Sync drains the pending queue right now, regardless of the monitor's view.
func (a *App) Sync(ctx context.Context) error {
	if err := a.engine.SyncPendingUploads(ctx); err != nil {
		fmt.Println("Sync failed:", err)
		return err
	}
	fmt.Println("Sync pass finished")
	return nil
}

// Retry moves a failed upload back to pending.
func (a *App) Retry(ctx context.Context, localID string) error {
	if err := a.engine.RetryUpload(ctx, localID); err != nil {
		fmt.Println("Retry failed:", err)
		return err
	}
	fmt.Println("Requeued", localID)
	return nil
}

// Status reports the connectivity monitor's current view.
func (a *App) Status(ctx context.Context) error {
	if a.monitor.Online() {
		fmt.Println("online")
	} else {
		fmt.Println("offline, uploads will sync on reconnect")
	}
	return nil
}
