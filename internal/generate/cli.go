package generate

import (
	"fmt"
	"strings"

	"github.com/vampirenirmal/codeforge/internal/core"
)

// cliSetup builds the argparse parser with one subcommand per detected
// entity plus the universal process command.
func cliSetup(rec core.AnalysisRecord, p Params) (string, error) {
	entities := entityNames(rec.Requirement, p.MinRoutes)

	var b strings.Builder
	b.WriteString(`logger = logging.getLogger(__name__)


def build_parser() -> argparse.ArgumentParser:
    """Assemble the command-line interface."""
    parser = argparse.ArgumentParser(description=__doc__)
    parser.add_argument("--verbose", action="store_true", help="enable debug logging")
    subcommands = parser.add_subparsers(dest="command", required=True)

    process_cmd = subcommands.add_parser("process", help="process a JSON payload")
    process_cmd.add_argument("payload", help="JSON object to process")
`)
	for _, entity := range entities {
		fmt.Fprintf(&b, `
    %[1]s_cmd = subcommands.add_parser("%[1]s", help="operate on %[1]s")
    %[1]s_cmd.add_argument("--list", action="store_true", help="list %[1]s")
`, entity)
	}
	b.WriteString(`
    return parser`)
	return b.String(), nil
}

// cliCoreLogic emits the dispatch loop and the per-command handlers, plus the
// run() entry the execution section calls.
func cliCoreLogic(rec core.AnalysisRecord, p Params) (string, error) {
	entities := entityNames(rec.Requirement, p.MinRoutes)

	var b strings.Builder
	b.WriteString(`def handle_process(args: argparse.Namespace) -> int:
    """Parse and process the payload argument."""
    try:
        payload: Dict[str, Any] = json.loads(args.payload)
    except json.JSONDecodeError as error:
        logger.error("invalid JSON payload: %s", error)
        return 2
    try:
        result = process_data(payload)
    except (ValueError, TypeError) as error:
        handle_error(error, context="process")
        return 1
    print(format_output(result))
    return 0`)

	for _, entity := range entities {
		fmt.Fprintf(&b, `


def handle_%[1]s(args: argparse.Namespace) -> int:
    """Handle the %[1]s subcommand."""
    if args.list:
        print(format_output({"%[1]s": []}))
    return 0`, entity)
	}

	b.WriteString(`


def run(argv: Optional[List[str]] = None) -> int:
    """Entry point used by both the __main__ guard and tests."""
    parser = build_parser()
    args = parser.parse_args(argv)
    if args.verbose:
        logging.basicConfig(level=logging.DEBUG)
    else:
        logging.basicConfig(level=logging.INFO)

    handlers: Dict[str, Callable[[argparse.Namespace], int]] = {
        "process": handle_process,`)
	for _, entity := range entities {
		fmt.Fprintf(&b, `
        "%[1]s": handle_%[1]s,`, entity)
	}
	b.WriteString(`
    }
    handler = handlers.get(args.command)
    if handler is None:
        parser.error(f"unknown command: {args.command}")
        return 2
    return handler(args)`)

	return b.String(), nil
}
