package value

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		raw     any
		want    TypedValue
		wantErr bool
	}{
		{name: "integer from int", typ: TypeInteger, raw: 7, want: Integer(7)},
		{name: "integer from json number", typ: TypeInteger, raw: json.Number("-12"), want: Integer(-12)},
		{name: "integer from integral float", typ: TypeInteger, raw: 3.0, want: Integer(3)},
		{name: "integer from string", typ: TypeInteger, raw: " 42 ", want: Integer(42)},
		{name: "integer overflow", typ: TypeInteger, raw: int64(math.MaxInt32) + 1, wantErr: true},
		{name: "integer from fractional float", typ: TypeInteger, raw: 3.5, wantErr: true},
		{name: "long from int64", typ: TypeLong, raw: int64(1) << 40, want: Long(1 << 40)},
		{name: "long from decimal", typ: TypeLong, raw: decimal.NewFromInt(99), want: Long(99)},
		{name: "long from fractional decimal", typ: TypeLong, raw: decimal.RequireFromString("1.5"), wantErr: true},
		{name: "long from uint64 overflow", typ: TypeLong, raw: uint64(math.MaxUint64), wantErr: true},
		{name: "long from text", typ: TypeLong, raw: "abc", wantErr: true},
		{name: "long from exponent json number", typ: TypeLong, raw: json.Number("1e3"), want: Long(1000)},
		{name: "long from integral decimal text", typ: TypeLong, raw: "20.0", want: Long(20)},
		{name: "long at the 64-bit limit", typ: TypeLong, raw: json.Number("9223372036854775807"), want: Long(math.MaxInt64)},
		{name: "long past the 64-bit limit", typ: TypeLong, raw: json.Number("9223372036854775808"), wantErr: true},
		{name: "long from huge exponent", typ: TypeLong, raw: json.Number("1e19"), wantErr: true},
		{name: "long from fractional json number", typ: TypeLong, raw: json.Number("1.5"), wantErr: true},
		{name: "long from tiny exponent", typ: TypeLong, raw: "1e-400", wantErr: true},
		{name: "long from zero with exponent", typ: TypeLong, raw: "0e5000", want: Long(0)},
		{name: "integer from exponent text out of range", typ: TypeInteger, raw: "3e9", wantErr: true},
		{name: "double from Infinity text", typ: TypeDouble, raw: "-Infinity", want: Double(math.Inf(-1))},
		{name: "double from go inf spelling", typ: TypeDouble, raw: "inf", wantErr: true},
		{name: "double from float32", typ: TypeDouble, raw: float32(7.25), want: Double(7.25)},
		{name: "double from int", typ: TypeDouble, raw: 2, want: Double(2)},
		{name: "double from decimal", typ: TypeDouble, raw: decimal.RequireFromString("42.125"), want: Double(42.125)},
		{name: "double from json number", typ: TypeDouble, raw: json.Number("1e3"), want: Double(1000)},
		{name: "double from bool", typ: TypeDouble, raw: true, wantErr: true},
		{name: "string", typ: TypeString, raw: "5", want: String("5")},
		{name: "string from int", typ: TypeString, raw: 5, wantErr: true},
		{name: "boolean", typ: TypeBoolean, raw: true, want: Boolean(true)},
		{name: "boolean from text", typ: TypeBoolean, raw: "false", want: Boolean(false)},
		{name: "boolean from garbage", typ: TypeBoolean, raw: "maybe", wantErr: true},
		{name: "untyped keeps raw", typ: Untyped, raw: "7.5", want: UntypedValue("7.5")},
		{name: "unknown type", typ: Type("date"), raw: "2026-01-01", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := New(tc.typ, tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrInvalidValue))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestType_Known(t *testing.T) {
	for _, typ := range []Type{Untyped, TypeInteger, TypeLong, TypeDouble, TypeString, TypeBoolean} {
		require.True(t, typ.Known(), typ)
	}
	require.False(t, Type("date").Known())
}

func TestTypedValue_IsUntyped(t *testing.T) {
	require.True(t, UntypedValue(3).IsUntyped())
	require.False(t, Integer(3).IsUntyped())
}

func TestTypedValue_String(t *testing.T) {
	require.Equal(t, "integer(3)", Integer(3).String())
	require.Equal(t, `untyped("abc")`, UntypedValue("abc").String())
	require.Equal(t, "double(12.5)", Double(12.5).String())
	require.Equal(t, "untyped(<nil>)", UntypedValue(nil).String())
}

func TestTypedValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    TypedValue
		wantErr bool
	}{
		{name: "typed integer", body: `{"type":"integer","value":3}`, want: Integer(3)},
		{name: "typed long", body: `{"type":"long","value":20}`, want: Long(20)},
		{name: "typed double from integral literal", body: `{"type":"double","value":2}`, want: Double(2)},
		{name: "typed long from text", body: `{"type":"long","value":"9000000000"}`, want: Long(9000000000)},
		{name: "typed long from exponent literal", body: `{"type":"long","value":1e3}`, want: Long(1000)},
		{name: "typed long from fractional literal", body: `{"type":"long","value":1.5}`, wantErr: true},
		{name: "typed double from Infinity text", body: `{"type":"double","value":"Infinity"}`, want: Double(math.Inf(1))},
		{name: "typed string", body: `{"type":"string","value":"x"}`, want: String("x")},
		{name: "untyped small number is int32", body: `{"value":5}`, want: UntypedValue(int32(5))},
		{name: "untyped large number is int64", body: `{"value":9000000000}`, want: UntypedValue(int64(9000000000))},
		{name: "untyped fraction is float64", body: `{"value":7.5}`, want: UntypedValue(7.5)},
		{name: "untyped string stays string", body: `{"value":"5"}`, want: UntypedValue("5")},
		{name: "untyped null", body: `{"value":null}`, want: UntypedValue(nil)},
		{name: "explicit empty type is untyped", body: `{"type":"","value":true}`, want: UntypedValue(true)},
		{name: "unknown type", body: `{"type":"date","value":"2026-01-01"}`, wantErr: true},
		{name: "integer overflow", body: `{"type":"integer","value":3000000000}`, wantErr: true},
		{name: "not an object", body: `[1,2]`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got TypedValue
			err := json.Unmarshal([]byte(tc.body), &got)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestTypedValue_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Long(20))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"long","value":20}`, string(out))

	out, err = json.Marshal(UntypedValue("7.5"))
	require.NoError(t, err)
	require.JSONEq(t, `{"value":"7.5"}`, string(out))

	out, err = json.Marshal([]TypedValue{Integer(1), Double(0.5)})
	require.NoError(t, err)
	require.JSONEq(t, `[{"type":"integer","value":1},{"type":"double","value":0.5}]`, string(out))
}

func TestTypedValue_MarshalJSON_NonFinite(t *testing.T) {
	tests := []struct {
		name string
		v    TypedValue
		want string
	}{
		{name: "NaN", v: Double(math.NaN()), want: `{"type":"double","value":"NaN"}`},
		{name: "positive infinity", v: Double(math.Inf(1)), want: `{"type":"double","value":"Infinity"}`},
		{name: "negative infinity", v: Double(math.Inf(-1)), want: `{"type":"double","value":"-Infinity"}`},
		{name: "untyped float32 infinity", v: UntypedValue(float32(math.Inf(1))), want: `{"value":"Infinity"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := json.Marshal(tc.v)
			require.NoError(t, err)
			require.JSONEq(t, tc.want, string(out))
		})
	}

	var back TypedValue
	require.NoError(t, json.Unmarshal([]byte(`{"type":"double","value":"NaN"}`), &back))
	require.Equal(t, TypeDouble, back.Type())
	require.True(t, math.IsNaN(back.Value().(float64)))
}

func TestParseDouble(t *testing.T) {
	tests := []struct {
		text    string
		want    float64
		wantErr bool
	}{
		{text: "1.5", want: 1.5},
		{text: " 2 ", want: 2},
		{text: "-3e2", want: -300},
		{text: "Infinity", want: math.Inf(1)},
		{text: "+Infinity", want: math.Inf(1)},
		{text: "-Infinity", want: math.Inf(-1)},
		{text: "1e400", want: math.Inf(1)},
		{text: "inf", wantErr: true},
		{text: "+Inf", wantErr: true},
		{text: "infinity", wantErr: true},
		{text: "nan", wantErr: true},
		{text: "0x1p-2", wantErr: true},
		{text: "1_000", wantErr: true},
		{text: "", wantErr: true},
		{text: ".", wantErr: true},
		{text: "abc", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got, err := ParseDouble(tc.text)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	nan, err := ParseDouble("-NaN")
	require.NoError(t, err)
	require.True(t, math.IsNaN(nan))
}

func TestFormatDouble(t *testing.T) {
	require.Equal(t, "3.0", FormatDouble(3, 64))
	require.Equal(t, "2.5", FormatDouble(2.5, 64))
	require.Equal(t, "1e+21", FormatDouble(1e21, 64))
	require.Equal(t, "NaN", FormatDouble(math.NaN(), 64))
	require.Equal(t, "Infinity", FormatDouble(math.Inf(1), 64))
	require.Equal(t, "-Infinity", FormatDouble(math.Inf(-1), 32))
}
