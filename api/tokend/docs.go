// Package tokend registers the OpenAPI document for the token service with
// the swag runtime so it can be served at /swagger/.
package tokend

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/tokensdk.HealthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/tokensdk.HealthResponse"}
                    },
                    "503": {
                        "description": "service not ready",
                        "schema": {"$ref": "#/definitions/tokensdk.HealthResponse"}
                    }
                }
            }
        },
        "/v1/login/tokens": {
            "post": {
                "security": [{"TokenAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tokens"],
                "summary": "Create Login Tokens",
                "parameters": [
                    {
                        "description": "Token requests",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/tokensdk.CreateLoginTokenRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "data",
                        "schema": {"$ref": "#/definitions/tokensdk.CreateLoginTokenResponse"}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/tokensdk.ErrorResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/tokensdk.ErrorResponse"}
                    },
                    "500": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/tokensdk.ErrorResponse"}
                    }
                }
            }
        },
        "/v1/login/tokens/extend": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tokens"],
                "summary": "Extend Login Token",
                "parameters": [
                    {
                        "description": "Token to extend",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/tokensdk.ExtendLoginTokenRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "authorization_token, not_after, faults",
                        "schema": {"$ref": "#/definitions/tokensdk.ExtendLoginTokenResponse"}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/tokensdk.ErrorResponse"}
                    },
                    "500": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/tokensdk.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "tokensdk.CreateLoginTokenRequest": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/tokensdk.TokenRequest"}
                }
            }
        },
        "tokensdk.TokenRequest": {
            "type": "object",
            "properties": {
                "not_before": {"type": "string", "format": "date-time"},
                "not_after": {"type": "string", "format": "date-time"},
                "not_more_than": {"type": "integer"}
            }
        },
        "tokensdk.CreateLoginTokenResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/tokensdk.IssuedToken"}
                }
            }
        },
        "tokensdk.IssuedToken": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "attributes": {"$ref": "#/definitions/tokensdk.TokenAttributes"}
            }
        },
        "tokensdk.TokenAttributes": {
            "type": "object",
            "properties": {
                "not_before": {"type": "string", "format": "date-time"},
                "not_after": {"type": "string", "format": "date-time"},
                "not_more_than": {"type": "integer"}
            }
        },
        "tokensdk.ExtendLoginTokenRequest": {
            "type": "object",
            "properties": {
                "authorization_token": {"type": "string"}
            }
        },
        "tokensdk.ExtendLoginTokenResponse": {
            "type": "object",
            "properties": {
                "authorization_token": {"type": "string"},
                "not_after": {"type": "string", "format": "date-time"},
                "faults": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/tokensdk.Fault"}
                }
            }
        },
        "tokensdk.Fault": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "tokensdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "tokensdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/tokensdk.HealthChecks"}
            }
        },
        "tokensdk.HealthChecks": {
            "type": "object",
            "properties": {
                "store": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "TokenAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Login token. Format: \"Token {token}\"."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Tokend Login Token Service API",
	Description:      "Issues, extends and authenticates opaque login tokens with bounded lifetimes and usage limits.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
