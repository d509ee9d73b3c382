// Package archive mirrors finished-call reports to Supabase storage.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/supabase-community/supabase-go"

	"github.com/AndrewKaranu/ScamShield/internal/call"
)

// Config holds the Supabase project coordinates.
type Config struct {
	URL            string
	ServiceRoleKey string
	Bucket         string
}

// Archive uploads report documents into a storage bucket.
type Archive struct {
	client *supabase.Client
	bucket string
	log    *logrus.Entry
}

// New builds an archive client. Returns an error instead of failing later on
// first upload.
func New(cfg Config, log *logrus.Entry) (*Archive, error) {
	client, err := supabase.NewClient(cfg.URL, cfg.ServiceRoleKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &Archive{client: client, bucket: cfg.Bucket, log: log}, nil
}

// Store uploads one report as a JSON document keyed by day and session id.
func (a *Archive) Store(r call.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	key := fmt.Sprintf("%s/%s.json", r.EndedAt.UTC().Format("2006-01-02"), r.SessionID)
	if _, err := a.client.Storage.UploadFile(a.bucket, key, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("upload report %s: %w", key, err)
	}
	a.log.WithFields(logrus.Fields{"key": key, "outcome": r.Outcome}).Info("report archived")
	return nil
}

// Sink adapts the archive to the report-sink callback shape. Uploads run in
// the caller's goroutine with a bounded retry.
func (a *Archive) Sink() func(call.Report) {
	return func(r call.Report) {
		var err error
		for attempt := 0; attempt < 3; attempt++ {
			if err = a.Store(r); err == nil {
				return
			}
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
		a.log.WithError(err).WithField("session", r.SessionID).Error("report archive failed")
	}
}
