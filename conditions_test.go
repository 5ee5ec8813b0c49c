package tokenescrow_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexademical address printing", t, func() {
		b := []byte("ABCD123456LHB")
		addr := tokenescrow.Address(b)

		So(addr.String(), ShouldEqual, fmt.Sprintf("%X", b))
	})

	Convey("test hexademical condition printing", t, func() {
		cond := tokenescrow.NewCondition("escrow", "vault", []byte{0xCA, 0xFE})

		So(cond.String(), ShouldEqual, "escrow/vault/CAFE")
	})

	Convey("test empty address printing", t, func() {
		So(tokenescrow.Address(nil).String(), ShouldEqual, "(nil)")
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := tokenescrow.NewAddress([]byte("some address"))
	hexAddr := strings.ToUpper(fmt.Sprintf("%x", []byte(addr)))

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr tokenescrow.Address
	}{
		"default decoding": {
			json:     `"` + hexAddr + `"`,
			wantAddr: addr,
		},
		"hex decoding": {
			json:     `"hex:` + hexAddr + `"`,
			wantAddr: addr,
		},
		"bech32 decoding": {
			json:     `"bech32:` + addr.Bech32() + `"`,
			wantAddr: addr,
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: tokenescrow.NewCondition("foo", "bar", []byte("conditiondata")).Address(),
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"invalid address length": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a tokenescrow.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition tokenescrow.Condition
	}{
		"default decoding": {
			json:          `"foo/bar/636f6e646974696f6e64617461"`,
			wantCondition: tokenescrow.NewCondition("foo", "bar", []byte("conditiondata")),
		},
		"invalid condition format": {
			json:    `"foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"zero address": {
			json:          `""`,
			wantCondition: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got tokenescrow.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantCondition) {
				t.Fatalf("got condition: %q", got)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	bad := tokenescrow.Address{1, 3, 5}
	assert.Error(t, bad.Validate())

	bz := []byte("bling")
	addr := tokenescrow.NewAddress(bz)
	assert.NoError(t, addr.Validate())
	assert.False(t, addr.Equals(bz))
	assert.False(t, addr.Equals(bad))
	assert.Nil(t, tokenescrow.NewAddress(nil))

	foo := fmt.Sprintf("%s", addr)
	assert.Equal(t, 2*tokenescrow.AddressLength, len(foo))
	ser, err := addr.MarshalJSON()
	require.NoError(t, err)
	addr3 := tokenescrow.Address{}
	require.NoError(t, addr3.UnmarshalJSON(ser))
	assert.True(t, addr.Equals(addr3))

	clone := addr.Clone()
	clone[0]++
	assert.False(t, addr.Equals(clone))
}

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond    tokenescrow.Condition
		isError bool
		ext     string
		typ     string
		data    []byte
		serial  string
	}{
		"bad format": {
			cond:    []byte("fo6/ds2qa"),
			isError: true,
		},
		"bad extension characters": {
			cond:    tokenescrow.NewCondition("a.b", "dfr", []byte{34}),
			isError: true,
		},
		"good format": {
			cond:   []byte("Foo/B4r/BZZ"),
			ext:    "Foo",
			typ:    "B4r",
			data:   []byte("BZZ"),
			serial: "Foo/B4r/425A5A",
		},
		"non-ascii data": {
			cond:   tokenescrow.NewCondition("help", "W1N", []byte{0xCA, 0xFE}),
			ext:    "help",
			typ:    "W1N",
			data:   []byte{0xCA, 0xFE},
			serial: "help/W1N/CAFE",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, data, err := tc.cond.Parse()
			if tc.isError {
				require.Error(t, err)
				require.Error(t, tc.cond.Validate())
				return
			}
			require.NoError(t, err)
			require.NoError(t, tc.cond.Validate())
			assert.Equal(t, tc.ext, ext)
			assert.Equal(t, tc.typ, typ)
			assert.Equal(t, tc.data, data)
			assert.Equal(t, tc.serial, tc.cond.String())
		})
	}
}
