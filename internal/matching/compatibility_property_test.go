package matching

import (
	"testing"

	"bloodlink/pkg/types"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genBloodType() gopter.Gen {
	values := make([]interface{}, len(types.AllBloodTypes))
	for i, t := range types.AllBloodTypes {
		values[i] = t
	}
	return gen.OneConstOf(values...)
}

// Every donor type can give to its own type, and the recipient set is never empty.
func TestRecipientsContainSelfProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("recipients are non-empty and include the donor type", prop.ForAll(
		func(donor types.BloodType) bool {
			recipients, err := Recipients(donor)
			if err != nil || len(recipients) == 0 {
				return false
			}
			return containsType(recipients, donor)
		},
		genBloodType(),
	))

	properties.Property("AB+ is a recipient of every donor type", prop.ForAll(
		func(donor types.BloodType) bool {
			return CanDonate(donor, types.BloodTypeABPos)
		},
		genBloodType(),
	))

	properties.Property("O- can give to every recipient type", prop.ForAll(
		func(recipient types.BloodType) bool {
			return CanDonate(types.BloodTypeONeg, recipient)
		},
		genBloodType(),
	))

	properties.TestingRun(t)
}

// Donors and Recipients describe the same relation from opposite ends.
func TestDonorsRecipientsSymmetryProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("t2 in Recipients(t1) iff t1 in Donors(t2)", prop.ForAll(
		func(t1, t2 types.BloodType) bool {
			recipients, err := Recipients(t1)
			if err != nil {
				return false
			}
			donors, err := Donors(t2)
			if err != nil {
				return false
			}
			return containsType(recipients, t2) == containsType(donors, t1)
		},
		genBloodType(),
		genBloodType(),
	))

	properties.TestingRun(t)
}
