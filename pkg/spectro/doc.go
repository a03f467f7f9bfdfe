// Package spectro defines the canonical spectral representation used to turn
// images, video and painted arrays into audio.
//
// A Settings value fixes the frequency resolution (bins), the output sample
// rate and the hop length between frames. Data holds a non-negative magnitude
// field of Settings.Resolution() bins by N time frames, lowest frequency in
// bin 0. The ingest subpackage builds Data from media, and the render
// subpackage reconstructs a waveform from it with Griffin-Lim.
package spectro
