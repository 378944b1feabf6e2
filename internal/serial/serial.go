package serial

// Serial is the link-port byte store. No transfer is modeled: data written
// to SB stays until overwritten and the SC control bits are inert.
type Serial struct {
	sb byte // FF01 data
	sc byte // FF02 control
}

func New() *Serial { return &Serial{} }

func (s *Serial) Read(addr uint16) byte {
	switch addr {
	case 0xFF01:
		return s.sb
	case 0xFF02:
		return s.sc
	default:
		return 0xFF
	}
}

func (s *Serial) Write(addr uint16, value byte) {
	switch addr {
	case 0xFF01:
		s.sb = value
	case 0xFF02:
		s.sc = value
	}
}
