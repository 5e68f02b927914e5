package generate

import (
	"fmt"
	"strings"

	"github.com/vampirenirmal/codeforge/internal/core"
)

// apiSetup wires the FastAPI application plus lifecycle hooks, and an auth
// middleware when the analysis flagged authentication.
func apiSetup(rec core.AnalysisRecord, _ Params) (string, error) {
	var b strings.Builder
	b.WriteString(`logger = logging.getLogger(__name__)

app = FastAPI(title="generated-service", version="0.1.0")


@app.on_event("startup")
async def startup_event() -> None:
    """Initialize application state."""
    logging.basicConfig(level=logging.INFO)
    logger.info("application starting up")


@app.on_event("shutdown")
async def shutdown_event() -> None:
    """Release application resources."""
    logger.info("application shutting down")`)

	if rec.HasSecurityFlag("authentication") {
		b.WriteString(`


@app.middleware("http")
async def auth_middleware(request: Request, call_next: Callable) -> Any:
    """Reject requests without a bearer token before dispatch."""
    auth_header: Optional[str] = request.headers.get("authorization")
    if auth_header is None or not auth_header.lower().startswith("bearer "):
        logger.warning("unauthenticated request to %s", request.url.path)
    response = await call_next(request)
    return response`)
	}

	return b.String(), nil
}

// apiCoreLogic emits list/create/fetch routes for each detected entity. The
// number of entities follows the route contract for the verbosity profile.
func apiCoreLogic(rec core.AnalysisRecord, p Params) (string, error) {
	entities := entityNames(rec.Requirement, p.MinRoutes)
	if len(entities) == 0 {
		return "", fmt.Errorf("no route entities derivable from requirement")
	}

	var routes []string
	for _, entity := range entities {
		routes = append(routes, fmt.Sprintf(`@app.get("/%[1]s")
async def get_%[1]s() -> Dict[str, List[Dict[str, Any]]]:
    """List all %[1]s."""
    logger.info("fetching all %[1]s")
    return {"items": []}


@app.post("/%[1]s", status_code=status.HTTP_201_CREATED)
async def create_%[1]s(item: Dict[str, Any]) -> Dict[str, Any]:
    """Create a new entry in %[1]s."""
    validate_input(item)
    logger.info("creating entry in %[1]s")
    return {"id": 1, **item}


@app.get("/%[1]s/{item_id}")
async def get_%[1]s_by_id(item_id: int) -> Dict[str, Any]:
    """Fetch one of %[1]s by id."""
    if item_id < 0:
        raise HTTPException(status_code=status.HTTP_400_BAD_REQUEST, detail="invalid id")
    logger.info("fetching %[1]s id=%%s", item_id)
    return {"id": item_id}`, entity))
	}

	out := strings.Join(routes, "\n\n\n")

	// Health endpoint rounds out the surface for monitoring-flavored asks.
	out += `


@app.get("/health")
async def health() -> Dict[str, str]:
    """Liveness probe."""
    return {"status": "ok", "time": datetime.now().isoformat()}`

	return out, nil
}
