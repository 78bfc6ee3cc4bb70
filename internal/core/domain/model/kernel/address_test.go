package kernel_test

import (
	"testing"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddressParams() kernel.AddressParams {
	return kernel.AddressParams{
		Name:     " Zhang San ",
		Mobile:   "13800000000",
		Province: "Zhejiang",
		City:     "Hangzhou",
		District: "Yuhang",
		Detail:   "969 Wenyi West Road",
	}
}

func TestNewAddress(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		a, err := kernel.NewAddress(validAddressParams())

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.Equal(t, "Zhang San", a.Name())
		assert.Equal(t, "13800000000", a.Contact())
		assert.Equal(t, "Zhejiang Hangzhou Yuhang 969 Wenyi West Road", a.String())
	})

	t.Run("phone is enough when mobile is missing", func(t *testing.T) {
		p := validAddressParams()
		p.Mobile = ""
		p.Phone = "0571-88888888"

		a, err := kernel.NewAddress(p)

		require.NoError(t, err)
		assert.Equal(t, "0571-88888888", a.Contact())
	})

	t.Run("missing fields are all reported", func(t *testing.T) {
		_, err := kernel.NewAddress(kernel.AddressParams{Name: "x"})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		for _, field := range []string{"phone or mobile", "province", "city", "detail"} {
			assert.Contains(t, err.Error(), field)
		}
	})
}

func TestAddress_ZeroValue(t *testing.T) {
	var a kernel.Address
	assert.Equal(t, kernel.ErrAddressIsNotConstructed, a.Validate())
}

func TestAddress_ParamsRoundTrip(t *testing.T) {
	a, err := kernel.NewAddress(validAddressParams())
	require.NoError(t, err)

	b, err := kernel.NewAddress(a.Params())
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b))
}
