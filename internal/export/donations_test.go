package export

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"bloodlink/internal/utils"
	"bloodlink/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

var exportNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func sampleLogs() []*types.DonationLog {
	return []*types.DonationLog{
		{
			ID:           "log-1",
			DonorID:      "donor-1",
			DonatedAt:    exportNow.Add(-48 * time.Hour),
			HospitalName: "Adan Hospital",
			RequestID:    utils.StringPtr("req-1"),
			Notes:        utils.StringPtr("platelets, \"apheresis\""),
			CreatedAt:    exportNow.Add(-47 * time.Hour),
		},
		{
			ID:           "log-2",
			DonorID:      "donor-2",
			DonatedAt:    exportNow.Add(-24 * time.Hour),
			HospitalName: "Central Blood Bank",
			CreatedAt:    exportNow.Add(-24 * time.Hour),
		},
	}
}

func TestDonationsCSV(t *testing.T) {
	body, err := DonationsCSV(sampleLogs())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,donor_id,donated_at,hospital_name,request_id,notes,created_at", lines[0])
	assert.Equal(t, `log-1,donor-1,2025-03-13T10:30:00Z,Adan Hospital,req-1,"platelets, ""apheresis""",2025-03-13T11:30:00Z`, lines[1])
	assert.Equal(t, "log-2,donor-2,2025-03-14T10:30:00Z,Central Blood Bank,,,2025-03-14T10:30:00Z", lines[2])
}

func TestExportUploadsToBucket(t *testing.T) {
	putter := &fakePutter{}
	key, err := NewDonationExporter(putter, "bloodlink-exports").Export(context.Background(), sampleLogs(), exportNow)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "exports/donations/20250315T103000Z-"))
	assert.True(t, strings.HasSuffix(key, ".csv"))
	require.NotNil(t, putter.input)
	assert.Equal(t, "bloodlink-exports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "text/csv", aws.ToString(putter.input.ContentType))
	assert.Contains(t, putter.body, "log-2,donor-2")
}

func TestExportErrors(t *testing.T) {
	_, err := NewDonationExporter(&fakePutter{}, "").Export(context.Background(), nil, exportNow)
	assert.Error(t, err)

	uploadErr := errors.New("access denied")
	_, err = NewDonationExporter(&fakePutter{err: uploadErr}, "bucket").Export(context.Background(), nil, exportNow)
	assert.ErrorIs(t, err, uploadErr)
}
