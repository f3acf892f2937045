package handlers

import (
	_ "embed"
	"html/template"
	"net/http"

	"forecast-api/pkg/logging"
)

const customCSSPath = "/swagger-ui/custom.css"

//go:embed static/custom.css
var customCSS []byte

var swaggerTemplate = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.10.0/swagger-ui.css">
    <link rel="stylesheet" type="text/css" href="{{.CSS}}">
    <style>
        html { box-sizing: border-box; overflow: -moz-scrollbars-vertical; overflow-y: scroll; }
        *, *:before, *:after { box-sizing: inherit; }
        body { margin:0; padding:0; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.10.0/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@5.10.0/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            const ui = SwaggerUIBundle({
                url: "{{.SpecURL}}",
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout"
            });
            window.ui = ui;
        };
    </script>
</body>
</html>`))

// SwaggerUI serves the Swagger UI HTML page
func (h *DocsHandler) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := swaggerTemplate.Execute(w, struct {
		Title   string
		CSS     string
		SpecURL string
	}{
		Title:   "WeatherForecast API v1",
		CSS:     customCSSPath,
		SpecURL: OpenAPIPath,
	})
	if err != nil {
		h.logger.Error(r.Context(), "[DOCS_RENDER_ERROR] Failed to render Swagger UI", logging.Fields{}, err)
	}
}

// CustomCSS serves the stylesheet injected into the Swagger UI.
func (h *DocsHandler) CustomCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(customCSS)
}
