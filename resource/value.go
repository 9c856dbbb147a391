package resource

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Kind classifies a Value.
type Kind int

const (
	// KindNull is a JSON null.
	KindNull Kind = iota
	// KindBool is a JSON boolean.
	KindBool
	// KindNumber is a JSON number.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindRaw is an object or array that no spec describes, kept as decoded.
	KindRaw
	// KindInstance is a nested resource instance.
	KindInstance
	// KindInstances is an ordered list of nested resource instances.
	KindInstances
)

var kindNames = [...]string{"null", "bool", "number", "string", "raw", "instance", "instances"}

// String returns the kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is one attribute value of an Instance.
type Value struct {
	kind      Kind
	b         bool
	num       json.Number
	s         string
	raw       any
	instance  *Instance
	instances []*Instance
}

// NullValue returns a null Value.
func NullValue() Value { return Value{kind: KindNull} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// NumberValue returns a numeric Value. The text form is kept to preserve precision.
func NumberValue(n json.Number) Value { return Value{kind: KindNumber, num: n} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// InstanceValue returns a Value holding a nested instance.
func InstanceValue(inst *Instance) Value { return Value{kind: KindInstance, instance: inst} }

// InstancesValue returns a Value holding a copy of an ordered list of nested instances.
func InstancesValue(list []*Instance) Value {
	if list == nil {
		return Value{kind: KindInstances, instances: []*Instance{}}
	}
	return Value{kind: KindInstances, instances: slices.Clone(list)}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is a JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether the value is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string and whether the value is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsNumber returns the number as float64 and whether the value is a number.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

// AsInt64 returns the number as int64 when it is integral.
func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := v.num.Int64()
	return n, err == nil
}

// AsNumberText returns the number in its original text form.
func (v Value) AsNumberText() (json.Number, bool) { return v.num, v.kind == KindNumber }

// AsInstance returns the nested instance.
func (v Value) AsInstance() (*Instance, bool) { return v.instance, v.kind == KindInstance }

// AsInstances returns a copy of the nested instance list.
func (v Value) AsInstances() ([]*Instance, bool) {
	if v.kind != KindInstances {
		return nil, false
	}
	return slices.Clone(v.instances), true
}

// Interface returns the value in decoded-JSON form: nil, bool, json.Number,
// string, map[string]any or []any. Nested instances are converted with ToMap.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.s
	case KindRaw:
		return cloneJSON(v.raw)
	case KindInstance:
		return v.instance.ToMap()
	case KindInstances:
		out := make([]any, len(v.instances))
		for i, inst := range v.instances {
			out[i] = inst.ToMap()
		}
		return out
	default:
		return nil
	}
}

// String formats the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.num.String()
	case KindString:
		return strconv.Quote(v.s)
	case KindInstance:
		return v.instance.String()
	case KindInstances:
		return fmt.Sprintf("[%d %s]", len(v.instances), v.kind)
	default:
		return fmt.Sprintf("%v", v.raw)
	}
}

// MarshalJSON encodes the value in its JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// infer classifies a decoded JSON value. Objects, arrays and values of any
// other Go type are passed through as KindRaw.
func infer(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(x)
	case string:
		return StringValue(x)
	case json.Number:
		return NumberValue(x)
	case float64:
		return NumberValue(json.Number(strconv.FormatFloat(x, 'f', -1, 64)))
	case float32:
		return NumberValue(json.Number(strconv.FormatFloat(float64(x), 'f', -1, 32)))
	case int:
		return NumberValue(json.Number(strconv.FormatInt(int64(x), 10)))
	case int8:
		return NumberValue(json.Number(strconv.FormatInt(int64(x), 10)))
	case int16:
		return NumberValue(json.Number(strconv.FormatInt(int64(x), 10)))
	case int32:
		return NumberValue(json.Number(strconv.FormatInt(int64(x), 10)))
	case int64:
		return NumberValue(json.Number(strconv.FormatInt(x, 10)))
	case uint:
		return NumberValue(json.Number(strconv.FormatUint(uint64(x), 10)))
	case uint8:
		return NumberValue(json.Number(strconv.FormatUint(uint64(x), 10)))
	case uint16:
		return NumberValue(json.Number(strconv.FormatUint(uint64(x), 10)))
	case uint32:
		return NumberValue(json.Number(strconv.FormatUint(uint64(x), 10)))
	case uint64:
		return NumberValue(json.Number(strconv.FormatUint(x, 10)))
	default:
		return Value{kind: KindRaw, raw: cloneJSON(raw)}
	}
}

// cloneJSON deep-copies maps and slices of decoded JSON so instances own their data.
func cloneJSON(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneJSON(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneJSON(e)
		}
		return out
	default:
		return v
	}
}
