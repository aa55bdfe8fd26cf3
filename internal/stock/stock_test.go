package stock

import (
	"encoding/json"
	"testing"
)

func TestProductRef(t *testing.T) {
	cases := []struct {
		raw     string
		id      int
		valid   bool
		echoRaw string
	}{
		{raw: `12`, id: 12, valid: true, echoRaw: `12`},
		{raw: `"12"`, id: 12, valid: true, echoRaw: `"12"`},
		{raw: `"missing"`, valid: false, echoRaw: `"missing"`},
		{raw: `1.5`, valid: false, echoRaw: `1.5`},
		{raw: `null`, valid: false, echoRaw: `null`},
	}
	for _, tc := range cases {
		var item Item
		if err := json.Unmarshal([]byte(`{"productId":`+tc.raw+`,"quantityChange":1}`), &item); err != nil {
			t.Fatalf("%s: unmarshal: %v", tc.raw, err)
		}
		id, ok := item.ProductID.ID()
		if ok != tc.valid || (ok && id != tc.id) {
			t.Fatalf("%s: got (%d,%v), want (%d,%v)", tc.raw, id, ok, tc.id, tc.valid)
		}
		out, err := json.Marshal(ItemResult{ProductID: item.ProductID})
		if err != nil {
			t.Fatalf("%s: marshal: %v", tc.raw, err)
		}
		if string(out) != `{"productId":`+tc.echoRaw+`}` {
			t.Fatalf("%s: unexpected echo %s", tc.raw, out)
		}
	}
}

func TestProductRef_AbsentIsNull(t *testing.T) {
	var item Item
	if err := json.Unmarshal([]byte(`{"quantityChange":1}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := item.ProductID.ID(); ok {
		t.Fatalf("absent productId must not resolve")
	}
	out, _ := json.Marshal(ItemResult{ProductID: item.ProductID, Error: errProductNotFound})
	if string(out) != `{"productId":null,"error":"product not found"}` {
		t.Fatalf("unexpected output %s", out)
	}
}
