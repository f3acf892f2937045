package wallet

import (
	"encoding/json"
	"testing"
)

func TestCurrency_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CurrencyType
		wantErr bool
	}{
		{"name", `{"currencyType":"Euro","amount":1.5}`, Euro, false},
		{"lower case name", `{"currencyType":"yen","amount":1}`, Yen, false},
		{"ordinal", `{"currencyType":0,"amount":1}`, Dollar, false},
		{"missing defaults to dollar", `{"amount":3}`, Dollar, false},
		{"unknown name", `{"currencyType":"Peso"}`, 0, true},
		{"ordinal out of range", `{"currencyType":7}`, 0, true},
		{"wrong type", `{"currencyType":true}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Currency
			err := json.Unmarshal([]byte(tt.input), &c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && c.CurrencyType != tt.want {
				t.Errorf("CurrencyType = %v, want %v", c.CurrencyType, tt.want)
			}
		})
	}
}

func TestCurrencyType_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Currency{CurrencyType: Yen, Amount: 2})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"currencyType":"Yen","amount":2}` {
		t.Errorf("Marshal() = %s", data)
	}

	if _, err := json.Marshal(CurrencyType(9)); err == nil {
		t.Error("Marshal() of an unknown currency should fail")
	}
	if CurrencyType(9).String() != "CurrencyType(9)" {
		t.Errorf("String() = %q", CurrencyType(9).String())
	}
}
