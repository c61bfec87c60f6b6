package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/zsiec/transcode/codec"
	"github.com/zsiec/transcode/exchange"
	"github.com/zsiec/transcode/media"
)

// Transcode decodes every access unit from r and re-encodes each picture
// into w through a second engine session, flushing both sessions at end of
// stream. The decode sink submits straight into the encoder's exchange
// driver, so both queues drain in lockstep and neither session is mutated
// while the other's drain is in progress. Returns pictures decoded and units
// written.
func Transcode(ctx context.Context, r io.Reader, w io.Writer, dec, enc *codec.Codec, encCfg codec.Config) (int, int, error) {
	log := slog.With("component", "transcode", "decoder", dec.Name, "encoder", enc.Name)

	encoder, err := enc.NewEncoder(encCfg)
	if err != nil {
		return 0, 0, err
	}
	defer encoder.Close()

	encDrv := exchange.New[media.Frame, *media.Packet](encoder, func(pkt *media.Packet) error {
		_, werr := w.Write(pkt.Data)
		return werr
	})

	frames, err := Decode(r, dec, codec.Config{}, func(seq int, fr *media.Frame) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		return encDrv.Cycle(fr)
	})
	if err != nil {
		return frames, encDrv.Produced(), err
	}

	if err := encDrv.Flush(); err != nil {
		return frames, encDrv.Produced(), err
	}
	if enc.MPEGEndCode {
		if _, err := w.Write(endCode); err != nil {
			return frames, encDrv.Produced(), err
		}
	}

	log.Info("transcode complete", "pictures", frames, "units", encDrv.Produced())
	return frames, encDrv.Produced(), nil
}
