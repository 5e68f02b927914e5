package generate

import (
	"github.com/vampirenirmal/codeforge/internal/core"
)

// testingSetup declares shared fixtures for a test-suite artifact.
func testingSetup(_ core.AnalysisRecord, _ Params) (string, error) {
	return `logger = logging.getLogger(__name__)`, nil
}

// testingCoreLogic emits the fixture and assertion toolkit a generated test
// suite builds on; the universal tests section supplies the cases themselves.
func testingCoreLogic(_ core.AnalysisRecord, _ Params) (string, error) {
	return `def make_fixture(**overrides: Any) -> Dict[str, Any]:
    """Build a payload fixture with optional field overrides."""
    base: Dict[str, Any] = {
        "id": 1,
        "name": "fixture",
        "created_at": datetime.now().isoformat(),
    }
    base.update(overrides)
    return base


def make_service_mock() -> Mock:
    """Build a mock service with canned responses."""
    service = Mock()
    service.fetch.return_value = {"items": []}
    service.store.return_value = True
    return service


def assert_valid_response(response: Dict[str, Any]) -> None:
    """Assert the common response envelope invariants."""
    assert isinstance(response, dict), "response must be a dict"
    assert "processed" in response or "items" in response, "response missing body"


def assert_data_integrity(data: Dict[str, Any]) -> None:
    """Assert a payload survived processing unmodified."""
    assert data is not None
    assert isinstance(data, dict)
    for key in data:
        assert isinstance(key, str), f"non-string key: {key!r}"`, nil
}
