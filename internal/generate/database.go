package generate

import (
	"github.com/vampirenirmal/codeforge/internal/core"
)

// databaseSetup wires the engine and session factory. The URL comes from the
// environment so generated modules never embed credentials.
func databaseSetup(_ core.AnalysisRecord, _ Params) (string, error) {
	return `logger = logging.getLogger(__name__)

DATABASE_URL: str = os.environ.get("DATABASE_URL", "sqlite:///app.db")

engine = create_engine(DATABASE_URL, echo=False, future=True)
SessionLocal = sessionmaker(bind=engine, autoflush=False, autocommit=False)
Base = declarative_base()


def get_session() -> Session:
    """Create a session; callers own its lifecycle."""
    return SessionLocal()`, nil
}

// databaseCoreLogic emits a declarative model plus generic CRUD helpers.
func databaseCoreLogic(_ core.AnalysisRecord, _ Params) (string, error) {
	return `class Record(Base):
    """One stored row with audit timestamps."""

    __tablename__ = "records"

    id = Column(Integer, primary_key=True, autoincrement=True)
    name = Column(String(255), nullable=False, index=True)
    payload = Column(String, nullable=True)
    created_at = Column(DateTime, default=datetime.utcnow, nullable=False)
    updated_at = Column(DateTime, default=datetime.utcnow, onupdate=datetime.utcnow)

    def __repr__(self) -> str:
        return f"<Record id={self.id} name={self.name!r}>"


def create_record(session: Session, name: str, payload: Optional[str] = None) -> Record:
    """Insert one record and commit."""
    record = Record(name=name, payload=payload)
    session.add(record)
    try:
        session.commit()
    except Exception:
        session.rollback()
        raise
    session.refresh(record)
    logger.info("created record id=%s", record.id)
    return record


def get_record(session: Session, record_id: int) -> Optional[Record]:
    """Fetch one record by primary key."""
    return session.get(Record, record_id)


def list_records(session: Session, limit: int = 100) -> List[Record]:
    """List records, newest first."""
    return (
        session.query(Record)
        .order_by(Record.created_at.desc())
        .limit(limit)
        .all()
    )


def update_record(session: Session, record_id: int, **fields: Any) -> Optional[Record]:
    """Apply field updates to one record, committing on success."""
    record = session.get(Record, record_id)
    if record is None:
        return None
    for key, value in fields.items():
        if hasattr(record, key):
            setattr(record, key, value)
    try:
        session.commit()
    except Exception:
        session.rollback()
        raise
    return record


def delete_record(session: Session, record_id: int) -> bool:
    """Delete one record; True when a row was removed."""
    record = session.get(Record, record_id)
    if record is None:
        return False
    session.delete(record)
    try:
        session.commit()
    except Exception:
        session.rollback()
        raise
    return True


def init_schema() -> None:
    """Create all tables for a fresh database."""
    Base.metadata.create_all(engine)
    logger.info("schema initialized")`, nil
}
