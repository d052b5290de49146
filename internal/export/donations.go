package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"bloodlink/internal/utils"
	"bloodlink/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of *s3.Client the exporter needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type DonationExporter struct {
	client ObjectPutter
	bucket string
}

func NewDonationExporter(client ObjectPutter, bucket string) *DonationExporter {
	return &DonationExporter{client: client, bucket: bucket}
}

var donationHeader = []string{"id", "donor_id", "donated_at", "hospital_name", "request_id", "notes", "created_at"}

// Export writes logs as CSV under exports/donations/ and returns the object key.
func (e *DonationExporter) Export(ctx context.Context, logs []*types.DonationLog, now time.Time) (string, error) {
	if e.bucket == "" {
		return "", fmt.Errorf("export bucket is not configured")
	}

	body, err := DonationsCSV(logs)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/donations/%s-%s.csv", now.UTC().Format("20060102T150405Z"), utils.NanoIDSize(8))

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload donation export: %w", err)
	}

	return key, nil
}

func DonationsCSV(logs []*types.DonationLog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(donationHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, log := range logs {
		record := []string{
			log.ID,
			log.DonorID,
			log.DonatedAt.UTC().Format(time.RFC3339),
			log.HospitalName,
			utils.PtrString(log.RequestID),
			utils.PtrString(log.Notes),
			log.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row for %s: %w", log.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
