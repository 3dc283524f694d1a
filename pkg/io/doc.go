// Package io moves synthesis inputs and outputs across the process boundary.
//
// # Images
//
// [Encode] writes a canvas as 8-bit grayscale PNG or Deflate-compressed TIFF.
// [WriteImage] does the same to a file path. The engine never touches files;
// every byte that reaches disk goes through this package.
//
// # Provenance
//
// Each generated image can carry a JSON sidecar ([Provenance]) recording
// the text, condition, seed and every applied stage with its parameters and
// random draws. Given the sidecar and the same build, the image can be
// regenerated bit for bit.
//
//	{
//	  "id": "line-0001",
//	  "text": "HELLO",
//	  "condition": "noisy",
//	  "seed": 7,
//	  "stages": [
//	    {"kind": "render", "params": {"font_scale": 1}, "drawn": {"font_px": 20.83}},
//	    {"kind": "noise", "params": {"density": 0.0045, "salt_ratio": 0.5}, "drawn": {"salt": 27, "pepper": 25}}
//	  ]
//	}
//
// # Inputs
//
// Batch inputs come from three sources, chosen by [Load]:
//
//   - a directory of *.txt files (one item per file, ID = file stem)
//   - a .csv file (one item per cell, ID = "<row>_<column>")
//   - any other file (one item per non-empty line, ID = "line-NNNN")
//
// # Manifest
//
// [WriteManifest] writes a CSV index of a batch run: one row per item with
// its output file, condition, seed and text, ready to pair with OCR output
// for evaluation.
package io
