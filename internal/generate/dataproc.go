package generate

import (
	"strings"

	"github.com/vampirenirmal/codeforge/internal/core"
)

// dataProcessingSetup declares the pipeline defaults.
func dataProcessingSetup(_ core.AnalysisRecord, _ Params) (string, error) {
	return `logger = logging.getLogger(__name__)

CHUNK_SIZE: int = 1_000`, nil
}

// dataProcessingCoreLogic emits a staged pipeline plus the standard
// transformation helpers.
func dataProcessingCoreLogic(rec core.AnalysisRecord, _ Params) (string, error) {
	var b strings.Builder
	b.WriteString(`class Pipeline:
    """Ordered stages applied to a frame, fail-fast on the first error."""

    def __init__(self) -> None:
        self.stages: List[Tuple[str, Callable[[pd.DataFrame], pd.DataFrame]]] = []

    def add_stage(self, name: str, stage: Callable[[pd.DataFrame], pd.DataFrame]) -> "Pipeline":
        """Register one stage; returns self for chaining."""
        self.stages.append((name, stage))
        return self

    def execute(self, frame: pd.DataFrame) -> pd.DataFrame:
        """Run every stage in registration order."""
        result = frame
        for name, stage in self.stages:
            logger.info("running stage %s on %s rows", name, len(result))
            try:
                result = stage(result)
            except Exception as error:
                raise ProcessingError(f"stage {name} failed: {error}") from error
        return result


def normalize(frame: pd.DataFrame) -> pd.DataFrame:
    """Scale numeric columns into [0, 1]."""
    result = frame.copy()
    for column in result.select_dtypes(include=[np.number]).columns:
        spread = result[column].max() - result[column].min()
        if spread > 0:
            result[column] = (result[column] - result[column].min()) / spread
    return result


def aggregate(frame: pd.DataFrame, key: str) -> pd.DataFrame:
    """Group by key and compute numeric means."""
    if key not in frame.columns:
        raise KeyError(f"aggregation key not present: {key}")
    return frame.groupby(key).mean(numeric_only=True).reset_index()


def filter_rows(frame: pd.DataFrame, condition: "pd.Series[bool]") -> pd.DataFrame:
    """Keep rows where the boolean condition holds."""
    if len(condition) != len(frame):
        raise ValueError("condition length does not match frame length")
    return frame[condition]


def read_chunks(path: Path, chunk_size: int = CHUNK_SIZE) -> Any:
    """Stream a CSV in fixed-size chunks."""
    if not path.exists():
        raise FileNotFoundError(f"input not found: {path}")
    return pd.read_csv(path, chunksize=chunk_size)`)

	if rec.HasPerformanceFlag("real_time") {
		b.WriteString(`


def stream_records(frames: Any) -> Any:
    """Yield processed rows as they arrive."""
    for frame in frames:
        for record in frame.to_dict(orient="records"):
            yield process_data(record)`)
	}

	return b.String(), nil
}
