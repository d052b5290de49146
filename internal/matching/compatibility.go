package matching

import (
	"fmt"
	"slices"

	"bloodlink/pkg/types"
)

// recipientTable maps each donor type to the recipient types it can safely give to.
// It is fixed and never loaded from settings.
var recipientTable = map[types.BloodType][]types.BloodType{
	types.BloodTypeONeg: {
		types.BloodTypeONeg, types.BloodTypeOPos,
		types.BloodTypeANeg, types.BloodTypeAPos,
		types.BloodTypeBNeg, types.BloodTypeBPos,
		types.BloodTypeABNeg, types.BloodTypeABPos,
	},
	types.BloodTypeOPos:  {types.BloodTypeOPos, types.BloodTypeAPos, types.BloodTypeBPos, types.BloodTypeABPos},
	types.BloodTypeANeg:  {types.BloodTypeANeg, types.BloodTypeAPos, types.BloodTypeABNeg, types.BloodTypeABPos},
	types.BloodTypeAPos:  {types.BloodTypeAPos, types.BloodTypeABPos},
	types.BloodTypeBNeg:  {types.BloodTypeBNeg, types.BloodTypeBPos, types.BloodTypeABNeg, types.BloodTypeABPos},
	types.BloodTypeBPos:  {types.BloodTypeBPos, types.BloodTypeABPos},
	types.BloodTypeABNeg: {types.BloodTypeABNeg, types.BloodTypeABPos},
	types.BloodTypeABPos: {types.BloodTypeABPos},
}

// Recipients returns the blood types a donor of type donor can give to.
// The returned slice is a copy and may be modified by the caller.
func Recipients(donor types.BloodType) ([]types.BloodType, error) {
	row, ok := recipientTable[donor]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidBloodType, donor)
	}

	return slices.Clone(row), nil
}

// Donors returns the blood types that can give to a recipient of type recipient.
func Donors(recipient types.BloodType) ([]types.BloodType, error) {
	if !recipient.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidBloodType, recipient)
	}

	out := make([]types.BloodType, 0, len(types.AllBloodTypes))
	for _, donor := range types.AllBloodTypes {
		if slices.Contains(recipientTable[donor], recipient) {
			out = append(out, donor)
		}
	}

	return out, nil
}

// CanDonate reports whether donor can give to recipient. Unknown types never match.
func CanDonate(donor, recipient types.BloodType) bool {
	return slices.Contains(recipientTable[donor], recipient)
}

// FilterCompatible keeps the open requests a donor of type donor is allowed to answer.
func FilterCompatible(donor types.BloodType, requests []*types.BloodRequest) ([]*types.BloodRequest, error) {
	recipients, err := Recipients(donor)
	if err != nil {
		return nil, err
	}

	out := make([]*types.BloodRequest, 0, len(requests))
	for _, req := range requests {
		if req == nil || !req.IsOpen() {
			continue
		}
		if slices.Contains(recipients, req.BloodType) {
			out = append(out, req)
		}
	}

	return out, nil
}
