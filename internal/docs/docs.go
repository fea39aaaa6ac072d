// Package docs registra el documento OpenAPI del servicio en swag.
// Se mantiene a mano junto con los bloques godoc de los handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/analysis/train": {
            "post": {
                "description": "Entrena con los logs de todas las mascotas y guarda en el slot global.",
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Entrenar modelo global",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analysis.TrainResult"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/analysis": {
            "get": {
                "description": "Corre el motor completo sobre los logs recientes: riesgo por modelo/reglas, riesgo contextual, blend, patrón de enfermedad, guía de salud y recomendaciones.",
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Analizar comportamiento",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/analysis/evaluate": {
            "get": {
                "description": "Entrena (sin guardar) con los logs previos a los últimos test_days días y mide accuracy/precision/recall/F1 sobre esos días.",
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Autoevaluación del modelo",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"type": "integer", "description": "Días de test. Por defecto 7", "name": "test_days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "422": {"description": "not enough logs", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/analysis/predict": {
            "post": {
                "description": "Evalúa un log puntual con el modelo entrenado, o con reglas si no hay modelo utilizable.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Predecir riesgo de enfermedad",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"description": "Campos del log", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/analysis.predictRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "invalid json / validación", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/analysis/train": {
            "post": {
                "description": "Entrena de forma sincrónica con los logs de la mascota. El modelo solo se guarda si pasa el umbral de calidad (AUC >= 0.6).",
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Entrenar modelo de una mascota",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analysis.TrainResult"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/behavior-logs": {
            "get": {
                "description": "Devuelve los logs de los últimos days_back días (máximo limit), en orden ascendente por fecha.",
                "produces": ["application/json"],
                "tags": ["behavior-logs"],
                "summary": "Listar logs de comportamiento",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"type": "integer", "description": "Máximo de logs (1-1000). Por defecto 100", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Ventana en días. Por defecto 30", "name": "days_back", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/behaviorlogs.logResponse"}}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Registra la observación diaria (actividad, comida, agua, baño, síntomas) de una mascota. Campos vacíos se guardan como \"Unknown\".",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["behavior-logs"],
                "summary": "Registrar log de comportamiento",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"description": "Observación; log_date en formato YYYY-MM-DD", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/behaviorlogs.createLogRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/behaviorlogs.logResponse"}},
                    "400": {"description": "invalid json / log_date inválido", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "analysis.TrainResult": {
            "type": "object",
            "properties": {
                "accepted": {"type": "boolean"},
                "cv_auc": {"type": "number"},
                "message": {"type": "string"},
                "outcome": {"type": "string"},
                "pet_id": {"type": "string"},
                "samples": {"type": "integer"},
                "scope": {"type": "string"},
                "trained_at": {"type": "string"}
            }
        },
        "analysis.predictRequest": {
            "type": "object",
            "required": ["activity_level", "bathroom_habits", "food_intake", "water_intake"],
            "properties": {
                "activity_level": {"type": "string", "maxLength": 100},
                "bathroom_habits": {"type": "string", "maxLength": 100},
                "food_intake": {"type": "string", "maxLength": 100},
                "symptom_count": {"type": "integer", "maximum": 100, "minimum": 0},
                "water_intake": {"type": "string", "maxLength": 100}
            }
        },
        "behaviorlogs.createLogRequest": {
            "type": "object",
            "properties": {
                "activity_level": {"type": "string"},
                "bathroom_habits": {"type": "string"},
                "food_intake": {"type": "string"},
                "log_date": {"type": "string"},
                "symptoms": {"type": "array", "items": {"type": "string"}},
                "water_intake": {"type": "string"}
            }
        },
        "behaviorlogs.logResponse": {
            "type": "object",
            "properties": {
                "activity_level": {"type": "string"},
                "bathroom_habits": {"type": "string"},
                "created_at": {"type": "string"},
                "food_intake": {"type": "string"},
                "id": {"type": "string"},
                "log_date": {"type": "string"},
                "pet_id": {"type": "string"},
                "symptoms": {"type": "array", "items": {"type": "string"}},
                "water_intake": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Behavior Analysis API",
	Description:      "Motor de riesgo de enfermedad a partir de logs diarios de comportamiento.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
