package generate

import (
	"github.com/vampirenirmal/codeforge/internal/core"
)

// genericSetup emits the logging bootstrap used by unclassified requirements.
func genericSetup(_ core.AnalysisRecord, _ Params) (string, error) {
	return `def setup_logging(log_level: int = logging.INFO) -> logging.Logger:
    """Configure root logging once and return the module logger."""
    logging.basicConfig(
        level=log_level,
        format="%(asctime)s %(levelname)s %(name)s %(message)s",
    )
    return logging.getLogger(__name__)


logger = setup_logging()`, nil
}

// genericCoreLogic emits a small service object wrapping the processing
// helpers, the fallback for requirements no rule matched.
func genericCoreLogic(_ core.AnalysisRecord, _ Params) (string, error) {
	return `@dataclass
class ServiceState:
    """Mutable counters for one service instance."""

    processed_count: int = 0
    error_count: int = 0
    started_at: str = field(default_factory=lambda: datetime.now().isoformat())


class ServiceHandler:
    """Process payloads while tracking basic statistics."""

    def __init__(self) -> None:
        self.state = ServiceState()

    def process(self, input_data: Dict[str, Any]) -> Dict[str, Any]:
        """Validate and process one payload."""
        try:
            validate_input(input_data)
            result = process_data(input_data)
        except (ValueError, TypeError) as error:
            self.state.error_count += 1
            raise ValidationError(str(error)) from error
        self.state.processed_count += 1
        return result

    def stats(self) -> Dict[str, Any]:
        """Snapshot of instance counters."""
        return {
            "processed": self.state.processed_count,
            "errors": self.state.error_count,
            "started_at": self.state.started_at,
        }

    def __repr__(self) -> str:
        return f"<ServiceHandler processed={self.state.processed_count}>"`, nil
}
