package dao

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"mygov_dao/sdk"
)

// codecVersion prefixes every record so the layout can change without guessing.
const codecVersion byte = 1

var errUnexpectedEOF = errors.New("unexpected EOF")

type binWriter struct {
	buf bytes.Buffer
}

func newWriter() *binWriter {
	w := &binWriter{}
	w.buf.WriteByte(codecVersion)
	return w
}

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeInt64(v int64) {
	w.writeUint64(uint64(v))
}

func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// writeAmount stores the full 32 byte word, nil becomes zero.
func (w *binWriter) writeAmount(v *uint256.Int) {
	if v == nil {
		v = Zero()
	}
	b := v.Bytes32()
	w.buf.Write(b[:])
}

func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddress(a sdk.Address) {
	w.buf.Write(a.Common().Bytes())
}

type binReader struct {
	data []byte
	pos  int
}

func newReader(data []byte) (*binReader, error) {
	if len(data) == 0 {
		return nil, errUnexpectedEOF
	}
	if data[0] != codecVersion {
		return nil, fmt.Errorf("unknown codec version %d", data[0])
	}
	return &binReader{data: data, pos: 1}, nil
}

func (r *binReader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, errUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *binReader) readBool() (bool, error) {
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	return b[0] == 1, nil
}

func (r *binReader) readUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *binReader) readInt64() (int64, error) {
	v, err := r.readUint64()
	return int64(v), err
}

func (r *binReader) readVarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

func (r *binReader) readAmount() (*uint256.Int, error) {
	b, err := r.take(32)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(b), nil
}

func (r *binReader) readString() (string, error) {
	l, err := r.readVarUint()
	if err != nil {
		return "", err
	}
	if l > uint64(len(r.data)) {
		return "", errUnexpectedEOF
	}
	b, err := r.take(int(l))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *binReader) readAddress() (sdk.Address, error) {
	b, err := r.take(common.AddressLength)
	if err != nil {
		return "", err
	}
	return sdk.AddressFromCommon(common.BytesToAddress(b)), nil
}

// readLen reads a list length and refuses counts that cannot possibly fit in the rest of the blob.
func (r *binReader) readLen(minItemSize int) (int, error) {
	n, err := r.readVarUint()
	if err != nil {
		return 0, err
	}
	if n > uint64(len(r.data)-r.pos)/uint64(minItemSize) {
		return 0, errUnexpectedEOF
	}
	return int(n), nil
}

// ------------------------------------------------------------------
// Records
// ------------------------------------------------------------------

// EncodeContractConfig serializes the one-off contract config.
func EncodeContractConfig(cfg *ContractConfig) []byte {
	w := newWriter()
	w.writeAddress(cfg.Deployer)
	w.writeAddress(cfg.Treasury)
	w.writeAmount(cfg.ProjectFeeTL)
	w.writeAmount(cfg.ProjectFeeMyGov)
	w.writeAmount(cfg.SurveyFeeTL)
	w.writeAmount(cfg.SurveyFeeMyGov)
	w.writeAmount(cfg.FaucetAmount)
	w.writeBool(cfg.OpenTLMint)
	w.writeInt64(cfg.InitializedAt)
	w.writeString(cfg.Tx)
	return w.bytes()
}

// DecodeContractConfig is the inverse of EncodeContractConfig.
func DecodeContractConfig(data []byte) (*ContractConfig, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}
	cfg := &ContractConfig{}
	if cfg.Deployer, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.Treasury, err = r.readAddress(); err != nil {
		return nil, err
	}
	for _, dst := range []**uint256.Int{&cfg.ProjectFeeTL, &cfg.ProjectFeeMyGov, &cfg.SurveyFeeTL, &cfg.SurveyFeeMyGov, &cfg.FaucetAmount} {
		if *dst, err = r.readAmount(); err != nil {
			return nil, err
		}
	}
	if cfg.OpenTLMint, err = r.readBool(); err != nil {
		return nil, err
	}
	if cfg.InitializedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if cfg.Tx, err = r.readString(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EncodeProject serializes a project to a compact binary form.
func EncodeProject(prj *Project) []byte {
	w := newWriter()
	w.writeUint64(prj.ID)
	w.writeAddress(prj.Owner)
	w.writeString(prj.WebURL)
	w.writeInt64(prj.VoteDeadline)
	w.writeVarUint(uint64(len(prj.PaymentAmounts)))
	for _, amt := range prj.PaymentAmounts {
		w.writeAmount(amt)
	}
	w.writeVarUint(uint64(len(prj.PaySchedule)))
	for _, ts := range prj.PaySchedule {
		w.writeInt64(ts)
	}
	w.writeUint64(prj.YesVotes)
	w.writeUint64(prj.NoVotes)
	w.writeBool(prj.BeingFunded)
	w.writeBool(prj.Lapsed)
	w.writeVarUint(uint64(prj.NextMilestone))
	w.writeAmount(prj.TLReceived)
	w.writeInt64(prj.CreatedAt)
	w.writeString(prj.Tx)
	return w.bytes()
}

// DecodeProject is the inverse of EncodeProject.
func DecodeProject(data []byte) (*Project, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}
	prj := &Project{}
	if prj.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if prj.Owner, err = r.readAddress(); err != nil {
		return nil, err
	}
	if prj.WebURL, err = r.readString(); err != nil {
		return nil, err
	}
	if prj.VoteDeadline, err = r.readInt64(); err != nil {
		return nil, err
	}
	n, err := r.readLen(32)
	if err != nil {
		return nil, err
	}
	prj.PaymentAmounts = make([]*uint256.Int, n)
	for i := range prj.PaymentAmounts {
		if prj.PaymentAmounts[i], err = r.readAmount(); err != nil {
			return nil, err
		}
	}
	if n, err = r.readLen(8); err != nil {
		return nil, err
	}
	prj.PaySchedule = make([]int64, n)
	for i := range prj.PaySchedule {
		if prj.PaySchedule[i], err = r.readInt64(); err != nil {
			return nil, err
		}
	}
	if prj.YesVotes, err = r.readUint64(); err != nil {
		return nil, err
	}
	if prj.NoVotes, err = r.readUint64(); err != nil {
		return nil, err
	}
	if prj.BeingFunded, err = r.readBool(); err != nil {
		return nil, err
	}
	if prj.Lapsed, err = r.readBool(); err != nil {
		return nil, err
	}
	next, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	prj.NextMilestone = uint32(next)
	if prj.TLReceived, err = r.readAmount(); err != nil {
		return nil, err
	}
	if prj.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if prj.Tx, err = r.readString(); err != nil {
		return nil, err
	}
	return prj, nil
}

// EncodePaymentTally packs both counters, 16 bytes plus version.
func EncodePaymentTally(t PaymentTally) []byte {
	w := newWriter()
	w.writeUint64(t.Yes)
	w.writeUint64(t.No)
	return w.bytes()
}

// DecodePaymentTally is the inverse of EncodePaymentTally.
func DecodePaymentTally(data []byte) (PaymentTally, error) {
	var t PaymentTally
	r, err := newReader(data)
	if err != nil {
		return t, err
	}
	if t.Yes, err = r.readUint64(); err != nil {
		return t, err
	}
	if t.No, err = r.readUint64(); err != nil {
		return t, err
	}
	return t, nil
}

// EncodeSurvey serializes a survey including its running results.
func EncodeSurvey(s *Survey) []byte {
	w := newWriter()
	w.writeUint64(s.ID)
	w.writeAddress(s.Owner)
	w.writeString(s.WebURL)
	w.writeInt64(s.Deadline)
	w.writeVarUint(uint64(s.NumChoices))
	w.writeVarUint(uint64(s.AtMostChoice))
	w.writeVarUint(uint64(len(s.Results)))
	for _, c := range s.Results {
		w.writeVarUint(c)
	}
	w.writeUint64(s.NumTaken)
	w.writeInt64(s.CreatedAt)
	w.writeString(s.Tx)
	return w.bytes()
}

// DecodeSurvey is the inverse of EncodeSurvey.
func DecodeSurvey(data []byte) (*Survey, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}
	s := &Survey{}
	if s.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if s.Owner, err = r.readAddress(); err != nil {
		return nil, err
	}
	if s.WebURL, err = r.readString(); err != nil {
		return nil, err
	}
	if s.Deadline, err = r.readInt64(); err != nil {
		return nil, err
	}
	numChoices, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	atMost, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	s.NumChoices, s.AtMostChoice = uint32(numChoices), uint32(atMost)
	n, err := r.readLen(1)
	if err != nil {
		return nil, err
	}
	s.Results = make([]uint64, n)
	for i := range s.Results {
		if s.Results[i], err = r.readVarUint(); err != nil {
			return nil, err
		}
	}
	if s.NumTaken, err = r.readUint64(); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if s.Tx, err = r.readString(); err != nil {
		return nil, err
	}
	return s, nil
}
