// Package docs holds the OpenAPI document served by swaggerkit
// regenerate with: swag init --v3.1 -g cmd/birdspot-api/main.go -o internal/services/api/docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "paths": {
    "/health": {
      "get": {
        "tags": ["Meta"],
        "summary": "Liveness probe",
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"type": "object", "properties": {"ok": {"type": "boolean"}}}}}}
        }
      }
    },
    "/version": {
      "get": {
        "tags": ["Meta"],
        "summary": "Build and version info",
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/version.BuildInfo"}}}}}
      }
    },
    "/ready": {
      "get": {
        "tags": ["Meta"],
        "summary": "Readiness probe with dependency checks",
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.ReadyResponse"}}}}}
      }
    },
    "/api/identify/photo": {
      "post": {
        "tags": ["Identify"],
        "summary": "Identify the bird in a photo",
        "requestBody": {
          "required": true,
          "content": {"multipart/form-data": {"schema": {"type": "object", "required": ["image"], "properties": {"image": {"type": "string", "format": "binary"}}}}}
        },
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Identification"}}}},
          "401": {"description": "invalid frontend api key"},
          "422": {"description": "undecodable image"},
          "429": {"description": "daily limit reached"},
          "503": {"description": "inference provider unavailable"}
        }
      }
    },
    "/api/identify/sound": {
      "post": {
        "tags": ["Identify"],
        "summary": "Identify the bird in an audio clip",
        "requestBody": {
          "required": true,
          "content": {"multipart/form-data": {"schema": {"type": "object", "required": ["audio"], "properties": {"audio": {"type": "string", "format": "binary"}}}}}
        },
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Identification"}}}},
          "401": {"description": "invalid frontend api key"},
          "422": {"description": "undecodable audio"},
          "429": {"description": "daily limit reached"},
          "503": {"description": "inference provider unavailable"}
        }
      }
    },
    "/api/validate/sound": {
      "post": {
        "tags": ["Identify"],
        "summary": "Check a clip against a target species and candidates",
        "requestBody": {
          "required": true,
          "content": {"multipart/form-data": {"schema": {
            "type": "object",
            "required": ["audio", "target_species_id"],
            "properties": {
              "audio": {"type": "string", "format": "binary"},
              "target_species_id": {"type": "string", "example": "amerob"},
              "candidate_species_ids": {"type": "array", "items": {"type": "string"}, "example": ["amerob", "norcar"]},
              "location": {"type": "string"},
              "season": {"type": "string"},
              "habitat": {"type": "string"}
            }
          }}}
        },
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Validation"}}}},
          "401": {"description": "invalid frontend api key"},
          "429": {"description": "daily limit reached"}
        }
      }
    },
    "/admin/usage/recent": {
      "get": {
        "tags": ["Admin"],
        "summary": "Newest usage log entries",
        "security": [{"bearer": []}],
        "parameters": [{"name": "limit", "in": "query", "schema": {"type": "integer", "default": 50, "maximum": 500}}],
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.RecentResponse"}}}}}
      }
    },
    "/admin/quota/{identity}": {
      "get": {
        "tags": ["Admin"],
        "summary": "Daily counter of one identity",
        "security": [{"bearer": []}],
        "parameters": [
          {"name": "identity", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "day", "in": "query", "schema": {"type": "string", "example": "2026-05-01"}}
        ],
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Usage"}}}}}
      },
      "delete": {
        "tags": ["Admin"],
        "summary": "Reset the daily counter of one identity",
        "security": [{"bearer": []}],
        "parameters": [
          {"name": "identity", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "day", "in": "query", "schema": {"type": "string"}}
        ],
        "responses": {"204": {"description": "reset"}}
      }
    },
    "/admin/cache/stats": {
      "get": {
        "tags": ["Admin"],
        "summary": "Result cache size",
        "security": [{"bearer": []}],
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Stats"}}}}}
      }
    },
    "/admin/cache/{key}": {
      "delete": {
        "tags": ["Admin"],
        "summary": "Evict one cached result",
        "security": [{"bearer": []}],
        "parameters": [{"name": "key", "in": "path", "required": true, "schema": {"type": "string"}}],
        "responses": {"204": {"description": "evicted"}, "404": {"description": "no such key"}}
      }
    }
  },
  "components": {
    "securitySchemes": {
      "bearer": {"type": "http", "scheme": "bearer"}
    },
    "schemas": {
      "domain.Prediction": {
        "type": "object",
        "properties": {
          "species_id": {"type": "string", "nullable": true, "example": "amerob"},
          "species_name": {"type": "string", "example": "American Robin"},
          "scientific_name": {"type": "string", "example": "Turdus migratorius"},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1, "example": 0.82},
          "reason": {"type": "string"},
          "matched_to_db": {"type": "boolean"}
        }
      },
      "domain.Identification": {
        "type": "object",
        "properties": {
          "predictions": {"type": "array", "minItems": 3, "maxItems": 3, "items": {"$ref": "#/components/schemas/domain.Prediction"}},
          "notes": {"type": "string"},
          "cached": {"type": "boolean"},
          "input_bytes": {"type": "integer"},
          "transcript": {"type": "string"}
        }
      },
      "domain.SpeciesRef": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "nullable": true},
          "species_name": {"type": "string"},
          "scientific_name": {"type": "string"}
        }
      },
      "domain.Validation": {
        "type": "object",
        "properties": {
          "target_species": {"$ref": "#/components/schemas/domain.SpeciesRef"},
          "best_match": {"$ref": "#/components/schemas/domain.SpeciesRef"},
          "best_alternative": {"$ref": "#/components/schemas/domain.SpeciesRef"},
          "match": {"type": "string", "enum": ["confirmed", "uncertain", "mismatch"]},
          "match_confidence": {"type": "number"},
          "best_alternative_confidence": {"type": "number"},
          "explanation": {"type": "string"},
          "cached": {"type": "boolean"},
          "input_bytes": {"type": "integer"}
        }
      },
      "domain.Entry": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "format": "uuid"},
          "identity": {"type": "string"},
          "ip": {"type": "string"},
          "endpoint": {"type": "string"},
          "fingerprint": {"type": "string"},
          "cached": {"type": "boolean"},
          "model": {"type": "string"},
          "input_bytes": {"type": "integer"},
          "created_at": {"type": "string", "format": "date-time"}
        }
      },
      "http.RecentResponse": {
        "type": "object",
        "properties": {"logs": {"type": "array", "items": {"$ref": "#/components/schemas/domain.Entry"}}}
      },
      "domain.Usage": {
        "type": "object",
        "properties": {
          "identity": {"type": "string"},
          "day": {"type": "string"},
          "count": {"type": "integer"},
          "limit": {"type": "integer"}
        }
      },
      "domain.Stats": {
        "type": "object",
        "properties": {
          "backend": {"type": "string", "enum": ["pg", "redis"]},
          "entries": {"type": "integer"},
          "memo_entries": {"type": "integer"}
        }
      },
      "version.BuildInfo": {
        "type": "object",
        "properties": {
          "service": {"type": "string"},
          "version": {"type": "string"},
          "commit": {"type": "string"},
          "date": {"type": "string"},
          "go": {"type": "string"}
        }
      },
      "http.ReadyCheck": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "status": {"type": "string"},
          "error": {"type": "string"}
        }
      },
      "http.ReadyResponse": {
        "type": "object",
        "properties": {
          "status": {"type": "string"},
          "checks": {"type": "array", "items": {"$ref": "#/components/schemas/http.ReadyCheck"}},
          "now": {"type": "string"}
        }
      }
    }
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "birdspot identify API",
	Description:      "Bird identification from photos and audio clips, with result caching and daily quotas.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
