package generate

import (
	"strings"

	"github.com/vampirenirmal/codeforge/internal/core"
)

// mlSetup seeds the random sources so training runs are reproducible.
func mlSetup(_ core.AnalysisRecord, _ Params) (string, error) {
	return `logger = logging.getLogger(__name__)

RANDOM_SEED: int = 42
np.random.seed(RANDOM_SEED)`, nil
}

// mlCoreLogic emits a train/predict/evaluate pipeline class plus the data
// loading helpers.
func mlCoreLogic(rec core.AnalysisRecord, _ Params) (string, error) {
	var b strings.Builder
	b.WriteString(`def load_data(file_path: str) -> pd.DataFrame:
    """Load a dataset from CSV with basic sanity checks."""
    if not os.path.exists(file_path):
        raise FileNotFoundError(f"dataset not found: {file_path}")
    frame = pd.read_csv(file_path)
    if frame.empty:
        raise ValueError("dataset is empty")
    logger.info("loaded %s rows from %s", len(frame), file_path)
    return frame


def preprocess_data(frame: pd.DataFrame) -> pd.DataFrame:
    """Drop null rows and scale numeric columns."""
    cleaned = frame.dropna()
    numeric = cleaned.select_dtypes(include=[np.number]).columns
    if len(numeric) > 0:
        scaler = preprocessing.StandardScaler()
        cleaned = cleaned.copy()
        cleaned[numeric] = scaler.fit_transform(cleaned[numeric])
    return cleaned


class ModelPipeline:
    """Train, predict, and evaluate one estimator behind a stable interface."""

    def __init__(self) -> None:
        self.model: Optional[Any] = None
        self.is_trained: bool = False

    def train(self, X: np.ndarray, y: np.ndarray) -> None:
        """Fit the estimator on the training split."""
        from sklearn.linear_model import LogisticRegression

        self.model = LogisticRegression(max_iter=1000, random_state=RANDOM_SEED)
        self.model.fit(X, y)
        self.is_trained = True
        logger.info("model trained on %s samples", len(X))

    def predict(self, X: np.ndarray) -> np.ndarray:
        """Predict labels for new samples."""
        if not self.is_trained or self.model is None:
            raise ProcessingError("model is not trained")
        return self.model.predict(X)

    def evaluate(self, X: np.ndarray, y: np.ndarray) -> float:
        """Return accuracy on a held-out split."""
        predictions = self.predict(X)
        accuracy = float(metrics.accuracy_score(y, predictions))
        logger.info("evaluation accuracy: %.4f", accuracy)
        return accuracy


def train_model(X: np.ndarray, y: np.ndarray, test_size: float = 0.2) -> ModelPipeline:
    """Split, train, and evaluate a fresh pipeline."""
    X_train, X_test, y_train, y_test = model_selection.train_test_split(
        X, y, test_size=test_size, random_state=RANDOM_SEED
    )
    pipeline = ModelPipeline()
    pipeline.train(X_train, y_train)
    pipeline.evaluate(X_test, y_test)
    return pipeline`)

	if rec.HasPerformanceFlag("batch") {
		b.WriteString(`


def predict_batch(pipeline: ModelPipeline, batches: List[np.ndarray]) -> List[np.ndarray]:
    """Run prediction over an iterable of batches."""
    return [pipeline.predict(batch) for batch in batches]`)
	}

	return b.String(), nil
}
