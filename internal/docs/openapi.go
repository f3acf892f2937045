// Package docs assembles the hand-written OpenAPI 3 document served by the API.
//
// Operations are described once in Go and then passed through a chain of
// OperationFilters before being rendered, so cross-cutting response and
// header conventions live in one place.
package docs

import (
	"net/http"
	"sort"
	"strings"
)

// Operation describes one HTTP operation of the API.
type Operation struct {
	Path        string
	Method      string
	OperationID string
	Summary     string
	Tags        []string

	// ReturnsForecast marks operations whose success body is a single forecast.
	ReturnsForecast bool
	// NeedsAuthorization is cosmetic: nothing enforces it at request time.
	NeedsAuthorization bool

	Parameters  []map[string]interface{}
	RequestBody map[string]interface{}
	Responses   map[string]interface{}
}

// OperationFilter mutates an operation before it is rendered.
type OperationFilter func(op *Operation)

// Info is the document's info block.
type Info struct {
	Title          string
	Version        string
	Description    string
	TermsOfService string
	ContactName    string
	ContactURL     string
	LicenseName    string
	LicenseURL     string
}

// DefaultInfo describes the forecast API.
func DefaultInfo() Info {
	return Info{
		Title:          "WeatherForecast API",
		Version:        "v1",
		Description:    "A simple example Web API over an in-memory weather forecast collection",
		TermsOfService: "https://example.com/terms",
		ContactName:    "John Doe",
		ContactURL:     "https://twitter.com/johndoe",
		LicenseName:    "Use under MIT",
		LicenseURL:     "https://example.com/license",
	}
}

// DefaultFilters returns the filters applied to every document.
func DefaultFilters() []OperationFilter {
	return []OperationFilter{ResponseExampleFilter, AuthHeaderFilter}
}

// ResponseExampleFilter replaces the responses of forecast-returning
// operations with a single documented 200 example, and gives every operation
// a 400 response when it has none.
func ResponseExampleFilter(op *Operation) {
	if op.Responses == nil {
		op.Responses = map[string]interface{}{}
	}

	if op.ReturnsForecast {
		op.Responses = map[string]interface{}{
			"200": map[string]interface{}{
				"description": "Success",
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{
						"example": map[string]interface{}{
							"date":         "2021-08-01",
							"temperatureC": 25,
							"temperatureF": 76,
							"summary":      "Hot",
						},
					},
				},
			},
		}
	}

	if _, ok := op.Responses["400"]; !ok {
		op.Responses["400"] = map[string]interface{}{
			"description": "Bad Request",
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"example": map[string]interface{}{"error": "Invalid input"},
				},
			},
		}
	}
}

// AuthHeaderFilter adds the required Auth header parameter to operations
// that are marked as needing authorization.
func AuthHeaderFilter(op *Operation) {
	if !op.NeedsAuthorization {
		return
	}
	op.Parameters = append(op.Parameters, map[string]interface{}{
		"name":        "Auth",
		"in":          "header",
		"description": "Default auth value",
		"required":    true,
		"schema": map[string]interface{}{
			"type":    "string",
			"default": "Beartoke",
		},
	})
}

// Build renders the document from ops after running every filter over each
// operation. ops is not modified.
func Build(info Info, ops []Operation, filters ...OperationFilter) map[string]interface{} {
	paths := map[string]interface{}{}

	for _, original := range ops {
		op := copyOperation(original)
		for _, filter := range filters {
			filter(&op)
		}

		item, ok := paths[op.Path].(map[string]interface{})
		if !ok {
			item = map[string]interface{}{}
			paths[op.Path] = item
		}

		rendered := map[string]interface{}{
			"operationId": op.OperationID,
			"summary":     op.Summary,
			"responses":   op.Responses,
		}
		if len(op.Tags) > 0 {
			rendered["tags"] = op.Tags
		}
		if len(op.Parameters) > 0 {
			rendered["parameters"] = op.Parameters
		}
		if op.RequestBody != nil {
			rendered["requestBody"] = op.RequestBody
		}
		item[strings.ToLower(op.Method)] = rendered
	}

	return map[string]interface{}{
		"openapi": "3.0.1",
		"info": map[string]interface{}{
			"title":          info.Title,
			"version":        info.Version,
			"description":    info.Description,
			"termsOfService": info.TermsOfService,
			"contact": map[string]string{
				"name": info.ContactName,
				"url":  info.ContactURL,
			},
			"license": map[string]string{
				"name": info.LicenseName,
				"url":  info.LicenseURL,
			},
		},
		"paths":      paths,
		"components": map[string]interface{}{"schemas": Schemas()},
	}
}

// OperationIDs lists the operation ids in ops, sorted.
func OperationIDs(ops []Operation) []string {
	ids := make([]string, 0, len(ops))
	for _, op := range ops {
		ids = append(ids, op.OperationID)
	}
	sort.Strings(ids)
	return ids
}

func copyOperation(op Operation) Operation {
	out := op
	out.Parameters = append([]map[string]interface{}(nil), op.Parameters...)
	out.Responses = make(map[string]interface{}, len(op.Responses))
	for k, v := range op.Responses {
		out.Responses[k] = v
	}
	return out
}

func ref(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

func jsonBody(schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{"schema": schema},
		},
	}
}

func response(description string, schema map[string]interface{}) map[string]interface{} {
	r := map[string]interface{}{"description": description}
	if schema != nil {
		r["content"] = jsonBody(schema)["content"]
	}
	return r
}

func idParam() map[string]interface{} {
	return map[string]interface{}{
		"name":     "id",
		"in":       "path",
		"required": true,
		"schema":   map[string]interface{}{"type": "integer", "format": "int32"},
	}
}

// Operations returns the operations exposed by the HTTP API.
func Operations() []Operation {
	tags := []string{"WeatherForecast"}
	notFound := response("Not Found", ref("ErrorResponse"))
	noContent := response("No Content", nil)

	return []Operation{
		{
			Path: "/WeatherForecast", Method: http.MethodGet, OperationID: "ListWeatherForecasts", Tags: tags,
			Summary: "List all forecasts in insertion order",
			Responses: map[string]interface{}{
				"200": response("Success", map[string]interface{}{"type": "array", "items": ref("WeatherForecast")}),
			},
		},
		{
			Path: "/WeatherForecast", Method: http.MethodHead, OperationID: "HeadWeatherForecast", Tags: tags,
			Summary: "Report the number of forecasts in the X-Total-Count header",
			Responses: map[string]interface{}{
				"204": map[string]interface{}{
					"description": "No Content",
					"headers": map[string]interface{}{
						"X-Total-Count": map[string]interface{}{"schema": map[string]string{"type": "integer"}},
					},
				},
				"404": response("Not Found", nil),
			},
		},
		{
			Path: "/WeatherForecast", Method: http.MethodPost, OperationID: "PostWeatherForecast", Tags: tags,
			Summary:     "Create a forecast dated today",
			RequestBody: jsonBody(ref("PostModel")),
			Responses: map[string]interface{}{
				"201": response("Created", ref("WeatherForecast")),
			},
		},
		{
			Path: "/WeatherForecast/{id}", Method: http.MethodGet, OperationID: "GetWeatherForecast", Tags: tags,
			Summary:         "Get a forecast with hypermedia links",
			ReturnsForecast: true,
			Parameters:      []map[string]interface{}{idParam()},
			Responses: map[string]interface{}{
				"200": response("Success", ref("WeatherForecastResource")),
				"404": notFound,
			},
		},
		{
			Path: "/WeatherForecast/{id}", Method: http.MethodPut, OperationID: "PutWeatherForecast", Tags: tags,
			Summary:            "Replace a forecast",
			NeedsAuthorization: true,
			Parameters:         []map[string]interface{}{idParam()},
			RequestBody:        jsonBody(ref("PutModel")),
			Responses:          map[string]interface{}{"204": noContent, "404": notFound},
		},
		{
			Path: "/WeatherForecast/{id}", Method: http.MethodPatch, OperationID: "PatchWeatherForecast", Tags: tags,
			Summary:            "Set the Celsius temperature of a forecast",
			NeedsAuthorization: true,
			Parameters:         []map[string]interface{}{idParam()},
			RequestBody:        jsonBody(ref("PatchModel")),
			Responses:          map[string]interface{}{"204": noContent, "404": notFound},
		},
		{
			Path: "/WeatherForecast/{id}/{summary}", Method: http.MethodPatch, OperationID: "PatchWeatherForecastBySummary", Tags: tags,
			Summary:            "Set the Celsius temperature of the first forecast whose summary matches; id is not used for matching",
			NeedsAuthorization: true,
			Parameters: []map[string]interface{}{
				idParam(),
				{"name": "summary", "in": "path", "required": true, "schema": map[string]string{"type": "string"}},
			},
			RequestBody: jsonBody(ref("PatchModel")),
			Responses:   map[string]interface{}{"204": noContent, "404": notFound},
		},
		{
			Path: "/WeatherForecast/{id}", Method: http.MethodDelete, OperationID: "DeleteWeatherForecast", Tags: tags,
			Summary:            "Delete a forecast",
			NeedsAuthorization: true,
			Parameters:         []map[string]interface{}{idParam()},
			Responses: map[string]interface{}{
				"204": noContent,
				"400": response("Bad Request", ref("ErrorResponse")),
				"404": notFound,
			},
		},
		{
			Path: "/WeatherForecast/code", Method: http.MethodGet, OperationID: "GetCode", Tags: tags,
			Summary: "JavaScript snippet computing Fahrenheit",
			Responses: map[string]interface{}{
				"200": map[string]interface{}{
					"description": "Success",
					"content": map[string]interface{}{
						"application/javascript": map[string]interface{}{"schema": map[string]string{"type": "string"}},
					},
				},
			},
		},
		{
			Path: "/Wallet", Method: http.MethodPost, OperationID: "PostWallet", Tags: []string{"Wallet"},
			Summary:     "Echo the currency type of a wallet amount",
			RequestBody: jsonBody(ref("Currency")),
			Responses: map[string]interface{}{
				"200": response("Success", map[string]interface{}{"type": "string"}),
			},
		},
		{
			Path: "/health", Method: http.MethodGet, OperationID: "HealthCheck", Tags: []string{"System"},
			Summary: "Check if the API is running",
			Responses: map[string]interface{}{
				"200": response("API is healthy", map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"status":    map[string]string{"type": "string"},
						"timestamp": map[string]string{"type": "string", "format": "date-time"},
						"records":   map[string]string{"type": "integer"},
					},
				}),
			},
		},
	}
}

// Schemas returns the component schemas referenced by Operations.
func Schemas() map[string]interface{} {
	nullableString := map[string]interface{}{"type": "string", "nullable": true}
	integer := map[string]interface{}{"type": "integer", "format": "int32"}

	return map[string]interface{}{
		"WeatherForecast": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"date":         map[string]string{"type": "string", "format": "date"},
				"temperatureC": integer,
				"temperatureF": map[string]interface{}{"type": "integer", "format": "int32", "readOnly": true},
				"summary":      nullableString,
				"id":           integer,
			},
		},
		"WeatherForecastSummary": map[string]interface{}{
			"type": "string",
			"enum": []string{"Hot", "Cold", "Freezing", "Scorching", "Burning"},
		},
		"Link": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"href":   map[string]string{"type": "string"},
				"rel":    map[string]string{"type": "string"},
				"method": map[string]string{"type": "string"},
			},
		},
		"WeatherForecastResource": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"weatherForecast": ref("WeatherForecast"),
				"links":           map[string]interface{}{"type": "array", "items": ref("Link")},
			},
		},
		"PostModel": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"temperatureC": integer,
				"summary":      nullableString,
			},
		},
		"PutModel": map[string]interface{}{
			"type":     "object",
			"required": []string{"weatherForecast"},
			"properties": map[string]interface{}{
				"weatherForecast": ref("WeatherForecast"),
			},
		},
		"PatchModel": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"temperatureC": integer,
			},
		},
		"CurrencyType": map[string]interface{}{
			"type": "string",
			"enum": []string{"Dollar", "Euro", "Yen"},
		},
		"Currency": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"currencyType": ref("CurrencyType"),
				"amount":       map[string]string{"type": "number", "format": "double"},
			},
		},
		"ErrorResponse": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"error":   map[string]string{"type": "string"},
				"message": map[string]string{"type": "string"},
				"code":    map[string]string{"type": "integer"},
			},
		},
	}
}
