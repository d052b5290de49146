package server

import (
	"context"
	"time"

	"bloodlink/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// The handlers depend on these narrow views of the repositories in internal/store
// so they can be exercised without a database.

type RequestStore interface {
	Request(ctx context.Context, requestID string) (*types.BloodRequest, error)
	Requests(ctx context.Context, filter types.RequestFilter) ([]*types.BloodRequest, error)
	Create(ctx context.Context, request *types.BloodRequest) error
	UpdateStatus(ctx context.Context, requestID string, next types.RequestStatus) (*types.BloodRequest, error)
}

type DonorStore interface {
	Donor(ctx context.Context, donorID string) (*types.DonorProfile, error)
	Donors(ctx context.Context, bloodType types.BloodType, city types.City, limit uint64) ([]*types.DonorProfile, error)
	Upsert(ctx context.Context, donor *types.DonorProfile) error
}

type DonationStore interface {
	Create(ctx context.Context, log *types.DonationLog) (*time.Time, error)
	ByDonor(ctx context.Context, donorID string) ([]*types.DonationLog, error)
	Logs(ctx context.Context, since *time.Time, limit uint64) ([]*types.DonationLog, error)
}

type StatsStore interface {
	Stats(ctx context.Context) (*types.AdminStats, error)
}

type SettingsProvider interface {
	Current(ctx context.Context) types.Settings
	Update(ctx context.Context, settings types.Settings) error
}

type Archiver interface {
	Run(ctx context.Context, now time.Time) (int64, error)
}

type DonationExporter interface {
	Export(ctx context.Context, logs []*types.DonationLog, now time.Time) (string, error)
}

type CognitoClient interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}
