package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Grading API",
        "description": "Submission validation and grade band resolution for school records",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Validation", "description": "Declarative rule sets for school record submissions"},
        {"name": "Grading Scales", "description": "Grade band validation, resolution and export"}
    ],
    "paths": {
        "/rulesets": {
            "get": {
                "tags": ["Validation"],
                "summary": "List rule sets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/validate/{ruleset}": {
            "post": {
                "tags": ["Validation"],
                "summary": "Validate a submission against a rule set",
                "parameters": [
                    {"name": "ruleset", "in": "path", "required": true, "type": "string", "enum": ["assessment", "attendance", "class", "grading_scale", "results", "teacher", "term"]},
                    {"name": "except_id", "in": "query", "type": "string", "description": "Row excluded from uniqueness checks when updating"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Valid", "schema": {"$ref": "#/definitions/ValidationEnvelope"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown rule set", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid", "schema": {"$ref": "#/definitions/ValidationEnvelope"}},
                    "503": {"description": "Reference lookups unavailable", "schema": {"$ref": "#/definitions/ValidationEnvelope"}}
                }
            }
        },
        "/grading-scales/validate": {
            "post": {
                "tags": ["Grading Scales"],
                "summary": "Validate a grading scale and its bands",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradingScale"}}
                ],
                "responses": {
                    "200": {"description": "Valid", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grading-scales/resolve": {
            "post": {
                "tags": ["Grading Scales"],
                "summary": "Resolve the grade for a percentage",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResolveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No band matches", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grading-scales/regrade": {
            "post": {
                "tags": ["Grading Scales"],
                "summary": "Grade result rows against a scale",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "All rows graded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Some rows could not be graded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grading-scales/defaults/check": {
            "post": {
                "tags": ["Grading Scales"],
                "summary": "Check that each school has at most one default scale",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DefaultsCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Conflicting defaults", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grading-scales/export": {
            "post": {
                "tags": ["Grading Scales"],
                "summary": "Export a grading scale table",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradingScale"}}
                ],
                "responses": {
                    "200": {"description": "Rendered document", "schema": {"type": "file"}}
                }
            }
        }
    },
    "definitions": {
        "FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "kind": {"type": "string", "enum": ["VALUE_REQUIRED", "TYPE_MISMATCH", "BOUNDS_VIOLATION", "ENUM_VIOLATION", "REFERENCE_NOT_FOUND", "DUPLICATE_VALUE", "ORDERING_VIOLATION", "NO_MATCHING_BAND", "OVERLAPPING_BANDS", "LOOKUP_UNAVAILABLE"]},
                "message": {"type": "string"}
            }
        },
        "ValidationResult": {
            "type": "object",
            "properties": {
                "ruleset": {"type": "string"},
                "valid": {"type": "boolean"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/FieldError"}},
                "fields": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "GradeBand": {
            "type": "object",
            "required": ["grade", "min_percentage"],
            "properties": {
                "grade": {"type": "string"},
                "label": {"type": "string"},
                "min_percentage": {"type": "number"},
                "max_percentage": {"type": "number"},
                "gpa_value": {"type": "number"},
                "description": {"type": "string"},
                "order": {"type": "integer"}
            }
        },
        "GradingScale": {
            "type": "object",
            "required": ["name", "grades"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "is_default": {"type": "boolean"},
                "is_active": {"type": "boolean"},
                "grades": {"type": "array", "items": {"$ref": "#/definitions/GradeBand"}}
            }
        },
        "ResolveRequest": {
            "type": "object",
            "required": ["percentage", "grades"],
            "properties": {
                "scale_id": {"type": "string"},
                "percentage": {"type": "number"},
                "grades": {"type": "array", "items": {"$ref": "#/definitions/GradeBand"}}
            }
        },
        "ResultRow": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "marks_obtained": {"type": "number"},
                "remarks": {"type": "string"}
            }
        },
        "RegradeRequest": {
            "type": "object",
            "required": ["total_marks", "results", "grades"],
            "properties": {
                "scale_id": {"type": "string"},
                "total_marks": {"type": "number"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/ResultRow"}},
                "grades": {"type": "array", "items": {"$ref": "#/definitions/GradeBand"}}
            }
        },
        "DefaultsCheckRequest": {
            "type": "object",
            "required": ["scales"],
            "properties": {
                "scales": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "id": {"type": "string"},
                            "school_id": {"type": "string"},
                            "name": {"type": "string"},
                            "is_default": {"type": "boolean"},
                            "is_active": {"type": "boolean"}
                        }
                    }
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/FieldError"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "ValidationEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ValidationResult"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
