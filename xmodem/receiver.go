package xmodem

import "errors"

// ErrTransferTimedOut means the retry budget for the current block was
// exhausted.
var ErrTransferTimedOut = errors.New("xmodem: transfer timed out")

// BlockReceiver drives the handshake/NAK/ACK state machine over a
// SerialDevice and produces a finite sequence of PayloadSize blocks in
// transmission order. There is no destructor to rely on, so callers
// MUST `defer receiver.Close()` to drive an abandoned transfer to
// completion.
type BlockReceiver struct {
	serial SerialDevice

	receivedBlock       bool
	finished            bool
	expectedBlockNumber uint8
	maxRetries          *uint32
}

// NewBlockReceiver starts a new receive session. maxRetries, if non-nil,
// bounds the number of consecutive failed attempts per block; nil means
// retry indefinitely.
func NewBlockReceiver(serial SerialDevice, maxRetries *uint32) *BlockReceiver {
	return &BlockReceiver{serial: serial, maxRetries: maxRetries}
}

// Next attempts to receive the next block. It returns ok=false once the
// sequence has ended, either cleanly (the peer sent EndOfTransmission) or
// by retry exhaustion.
func (r *BlockReceiver) Next() (block [PayloadSize]byte, ok bool) {
	if r.finished {
		return block, false
	}

	var retries uint32
blockLoop:
	for r.maxRetries == nil || retries < *r.maxRetries {
		message := NAK
		if r.receivedBlock {
			message = ACK
		}
		if err := r.serial.WriteChar(message); err != nil {
			retries++
			continue blockLoop
		}
		r.receivedBlock = false

		var buf [MaxPacketSize]byte
		bufIndex := 0
		for {
			b, err := r.serial.ReadByte(DefaultTimeout)
			if err != nil {
				retries++
				continue blockLoop
			}
			buf[bufIndex] = b

			if bufIndex == 0 || bufIndex == MaxPacketSize-1 {
				pkt, perr := Parse(buf[:bufIndex+1])
				switch {
				case errors.Is(perr, errIncomplete):
					// Not yet decidable (single-byte peek that wasn't
					// EOT); keep filling the buffer.
				case perr != nil:
					// Buffer filled without a valid parse: counts as one
					// retry.
					retries++
					continue blockLoop
				default:
					switch p := pkt.(type) {
					case EndOfTransmission:
						r.endTransmission()
						return block, false
					case Chunk:
						next := r.expectedBlockNumber + 1
						if p.BlockNumber == next {
							r.receivedBlock = true
							r.expectedBlockNumber = next
							return p.Payload, true
						}
						// Wrong block number: discard silently, neither
						// emit nor advance. Falls through to the buffer
						// filling up and restarting the block loop,
						// which will NAK.
					}
				}
				if r.finished {
					return block, false
				}
			}

			bufIndex++
			if bufIndex == MaxPacketSize {
				continue blockLoop
			}
		}
	}

	// Retry budget exhausted.
	r.finished = true
	return block, false
}

// endTransmission runs the clean-shutdown sequence: ACK the EOT, wait for
// a final ETB and ACK it too. Errors past this point are swallowed — the
// peer has already committed to ending.
func (r *BlockReceiver) endTransmission() {
	r.finished = true
	if err := r.serial.WriteChar(ACK); err != nil {
		return
	}
	if b, err := r.serial.ReadByte(DefaultTimeout); err == nil && b == ETB {
		_ = r.serial.WriteChar(ACK)
	}
}

// Close drains any remaining blocks so the serial channel is left
// quiescent: if the consumer stops iterating early, the sequence must
// still be driven to completion so the peer observes a clean shutdown
// rather than a half-spoken protocol. Call this via `defer` immediately
// after NewBlockReceiver.
func (r *BlockReceiver) Close() error {
	for {
		if _, ok := r.Next(); !ok {
			return nil
		}
	}
}
