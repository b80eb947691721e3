// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with `swag init -g cmd/server/docs.go` after changing handler
// annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/productrec/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Returns a fixed message confirming the API is up",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Service banner",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/models.MessageResponse"}
                    }
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/models.LivenessResponse"}
                    }
                }
            }
        },
        "/health/ready": {
            "get": {
                "description": "Reports catalog sizes and the loaded model. The service only starts serving once both are loaded.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/models.ReadinessResponse"}
                    }
                }
            }
        },
        "/recommendations/": {
            "post": {
                "description": "Scores every product in the user's most frequent category and returns the top_k highest, plus the user's purchase history",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Recommend products for a user",
                "parameters": [
                    {
                        "description": "User and result size",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.RecommendationRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/models.RecommendationResult"}
                    },
                    "404": {
                        "description": "Unknown user, no purchases, or empty category",
                        "schema": {"$ref": "#/definitions/models.DetailResponse"}
                    },
                    "413": {
                        "description": "Request Entity Too Large",
                        "schema": {"$ref": "#/definitions/models.DetailResponse"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/models.ValidationErrorResponse"}
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {"$ref": "#/definitions/models.DetailResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/models.DetailResponse"}
                    },
                    "504": {
                        "description": "Gateway Timeout",
                        "schema": {"$ref": "#/definitions/models.DetailResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "models.DetailResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string", "example": "User ID not found"}
            }
        },
        "models.LivenessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "models.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Recommendation System API is running!"}
            }
        },
        "models.ModelInfo": {
            "type": "object",
            "properties": {
                "digest": {"type": "string", "example": "9f2c..."},
                "embedding_dim": {"type": "integer", "example": 64},
                "layers": {"type": "array", "items": {"type": "integer"}},
                "parameters": {"type": "integer", "example": 1234567}
            }
        },
        "models.Purchase": {
            "type": "object",
            "properties": {
                "image": {"type": "string", "example": "https://example.com/keyboard.jpg"},
                "name": {"type": "string", "example": "USB Keyboard"},
                "product_id": {"type": "integer", "example": 3},
                "rating": {"type": "number", "example": 5}
            }
        },
        "models.ReadinessResponse": {
            "type": "object",
            "properties": {
                "categories": {"type": "integer", "example": 12},
                "interactions": {"type": "integer", "example": 20000},
                "items": {"type": "integer", "example": 1500},
                "model": {"$ref": "#/definitions/models.ModelInfo"},
                "products": {"type": "integer", "example": 1500},
                "status": {"type": "string", "example": "ready"},
                "uptime": {"type": "string", "example": "1h2m3s"},
                "users": {"type": "integer", "example": 800}
            }
        },
        "models.RecommendationRequest": {
            "type": "object",
            "required": ["user_id"],
            "properties": {
                "top_k": {"type": "integer", "example": 10},
                "user_id": {"type": "integer", "example": 7}
            }
        },
        "models.RecommendationResult": {
            "type": "object",
            "properties": {
                "recommended_products": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/models.RecommendedProduct"}
                },
                "user_purchases": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/models.Purchase"}
                }
            }
        },
        "models.RecommendedProduct": {
            "type": "object",
            "properties": {
                "image": {"type": "string", "example": "https://example.com/mouse.jpg"},
                "name": {"type": "string", "example": "Wireless Mouse"},
                "product_id": {"type": "integer", "example": 1},
                "ratings": {"type": "number", "example": 4.2}
            }
        },
        "models.ValidationDetail": {
            "type": "object",
            "properties": {
                "loc": {"type": "array", "items": {"type": "string"}},
                "msg": {"type": "string", "example": "user_id must be a valid integer"},
                "type": {"type": "string", "example": "int_type"}
            }
        },
        "models.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "detail": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/models.ValidationDetail"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3450",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Productrec API",
	Description:      "Personalized product recommendations from a neural collaborative filtering model.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
