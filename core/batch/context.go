package batch

// maxParameters covers %0 through %9.
const maxParameters = 10

// batchContext is the state of one running batch file.
type batchContext struct {
	path string
	// parameters[0] is the path, the rest are arguments.
	parameters [maxParameters]string
	shift      int
	savedEcho  bool
	source     LineSource
	parent     *batchContext
}

func newBatchContext(path string, args []string, echo bool, source LineSource) *batchContext {
	bc := &batchContext{
		path:      path,
		savedEcho: echo,
		source:    source,
	}
	bc.parameters[0] = path
	for i := 0; i < len(args) && i+1 < maxParameters; i++ {
		bc.parameters[i+1] = args[i]
	}
	return bc
}

// parameter returns %index after shifting. %0 never shifts.
func (bc *batchContext) parameter(index int) string {
	actual := index
	if index != 0 {
		actual = index + bc.shift
	}
	if actual < 0 || actual >= maxParameters {
		return ""
	}
	return bc.parameters[actual]
}

func (bc *batchContext) shiftParameters() {
	bc.shift++
}

func (bc *batchContext) readLine() (string, bool) {
	if bc.source == nil {
		return "", false
	}
	return bc.source.ReadLine()
}

// close releases the line source, subsequent calls do nothing.
func (bc *batchContext) close() error {
	if bc.source == nil {
		return nil
	}
	err := bc.source.Close()
	bc.source = nil
	return err
}
