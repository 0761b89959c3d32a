package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Padelcore API",
        "description": "Tournament and match approval workflow with real-time fanout",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "auth", "description": "Registration, login and token refresh"},
        {"name": "approvals", "description": "Staged tournament/match creation and moderation"},
        {"name": "activities", "description": "Recent activity feed"},
        {"name": "tournaments", "description": "Tournament catalogue"},
        {"name": "matches", "description": "Matches and results"},
        {"name": "users", "description": "User administration"},
        {"name": "rankings", "description": "Daily ranking snapshots"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user and issue a token pair",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Authenticate with email and password",
                "responses": {
                    "200": {"description": "Token pair"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange a refresh token for a new pair",
                "responses": {
                    "200": {"description": "Token pair"},
                    "401": {"description": "Invalid refresh token"}
                }
            }
        },
        "/aprobaciones": {
            "post": {
                "tags": ["approvals"],
                "summary": "Submit a tournament or match for approval",
                "responses": {
                    "201": {"description": "Pending approval created"},
                    "400": {"description": "Unsupported tipo or malformed payload"}
                }
            },
            "get": {
                "tags": ["approvals"],
                "summary": "List approval requests",
                "responses": {
                    "200": {"description": "Approvals"}
                }
            }
        },
        "/aprobaciones/{id}/approve": {
            "patch": {
                "tags": ["approvals"],
                "summary": "Approve a pending request and materialize the entity",
                "responses": {
                    "200": {"description": "Detail and created entity id"},
                    "400": {"description": "Already processed or invalid payload"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/aprobaciones/{id}/reject": {
            "patch": {
                "tags": ["approvals"],
                "summary": "Reject a pending request",
                "responses": {
                    "200": {"description": "Detail"},
                    "400": {"description": "Already processed"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/actividades": {
            "get": {
                "tags": ["activities"],
                "summary": "List recent activity, newest first",
                "responses": {
                    "200": {"description": "Activity entries"}
                }
            }
        },
        "/torneos": {
            "get": {
                "tags": ["tournaments"],
                "summary": "List tournaments",
                "responses": {"200": {"description": "Tournaments"}}
            },
            "post": {
                "tags": ["tournaments"],
                "summary": "Create a tournament directly (admin)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/partidos": {
            "get": {
                "tags": ["matches"],
                "summary": "List matches",
                "responses": {"200": {"description": "Matches"}}
            },
            "post": {
                "tags": ["matches"],
                "summary": "Create a match directly (admin)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/usuarios": {
            "get": {
                "tags": ["users"],
                "summary": "List users (admin)",
                "responses": {"200": {"description": "Users"}}
            }
        },
        "/rankings": {
            "get": {
                "tags": ["rankings"],
                "summary": "Ranking snapshot for a date, latest by default",
                "responses": {"200": {"description": "Ranking records"}}
            }
        },
        "/rankings/generate": {
            "post": {
                "tags": ["rankings"],
                "summary": "Schedule an asynchronous ranking snapshot (admin)",
                "responses": {"202": {"description": "Scheduled"}}
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        },
        "Detail": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"}
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
