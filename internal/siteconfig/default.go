package siteconfig

import "encoding/json"

// defaultConfig is the compiled-in configuration served whenever the store is
// unreachable or holds no row yet. It keeps the public storefront rendering
// with sane content instead of failing the page load.
var defaultConfig = mustMarshal(map[string]any{
	"pageTitle":      "Thunder Recargas",
	"headerTitle":    "Thunder Recargas",
	"headerSubtitle": "Recargas promocionais com segurança e PIX",
	"pixKey":         "82999158412",
	"pixName":        "Jeferson",
	"pixCity":        "SAO PAULO",
	"rechargeOptions": map[string][]string{
		"Vivo": {"R$35,00 PAGA R$25,00", "R$40,00 PAGA R$38,00", "R$50,00 PAGA R$20,00"},
		"Claro": {
			"R$20,00 PAGA R$15,00", "R$25,00 PAGA R$20,00", "R$30,00 PAGA R$22,00",
			"R$35,00 PAGA R$25,00", "R$40,00 PAGA R$30,00", "R$50,00 PAGA R$35,00",
		},
		"Tim": {"R$15,00 PAGA R$10,00", "R$20,00 PAGA R$15,00", "R$30,00 PAGA R$20,00", "R$40,00 PAGA R$30,00"},
	},
	"footerWarning":   "Atenção: As recargas promocionais podem levar até 24 horas para serem creditadas em sua linha após a confirmação do pagamento.",
	"footerCopyright": "© 2025 Thunder Recargas. Todos os direitos reservados.",
})

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

// Default returns a copy of the compiled-in configuration blob.
func Default() json.RawMessage {
	out := make(json.RawMessage, len(defaultConfig))
	copy(out, defaultConfig)
	return out
}
